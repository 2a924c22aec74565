package gseries

// BuildAuth constructs a SET_PARAMS frame carrying the PASSWORD parameter,
// used to authenticate before issuing lock/unlock/query commands on
// devices that require it. If key is non-nil the frame is encrypted.
func BuildAuth(password string, key []byte) ([]byte, error) {
	content := buildParamTLV(ParamPassword, []byte(password))
	return buildCommand(CmdSetParams, content, key)
}

// BuildLock constructs a SET_PARAMS frame writing PARAM_SEAL_STATE=locked.
func BuildLock(key []byte) ([]byte, error) {
	content := buildParamTLV(ParamSealState, []byte{SealStateLock})
	return buildCommand(CmdSetParams, content, key)
}

// BuildUnlock constructs a SET_PARAMS frame writing
// PARAM_SEAL_STATE=unlocked.
func BuildUnlock(key []byte) ([]byte, error) {
	content := buildParamTLV(ParamSealState, []byte{SealStateUnlock})
	return buildCommand(CmdSetParams, content, key)
}

// BuildQueryStatus constructs a QUERY_PARAMS frame requesting
// PARAM_LOCK_STATE. Query payloads carry no count prefix, unlike
// set-parameter payloads.
func BuildQueryStatus(key []byte) ([]byte, error) {
	content := []byte{ParamLockState}
	return buildCommand(CmdQueryParams, content, key)
}

func buildCommand(cmd uint16, content []byte, key []byte) ([]byte, error) {
	if key == nil {
		return BuildPlain(cmd, content), nil
	}
	return BuildEncrypted(cmd, content, key)
}
