package dto

// RoResult is the outcome class carried by every API response.
type RoResult int8

const (
	RoSuccess         RoResult = 1
	RoIllegalArgument RoResult = -1
	// RoWarn covers user-side outcomes like "nothing there"; it is not a fault.
	RoWarn RoResult = -2
	RoFail RoResult = -3
)

// Ro is the uniform response envelope.
type Ro struct {
	Result RoResult    `json:"result"`
	Msg    string      `json:"msg"`
	Extra  interface{} `json:"extra,omitempty"`
	Detail string      `json:"detail,omitempty"`
	Code   string      `json:"code,omitempty"`
}

// SuccessRo builds a success envelope.
func SuccessRo(msg string, extra interface{}) Ro {
	return Ro{Result: RoSuccess, Msg: msg, Extra: extra}
}

// WarnRo builds a warning envelope with no payload.
func WarnRo(msg string) Ro {
	return Ro{Result: RoWarn, Msg: msg}
}

// IllegalArgumentRo builds a validation-failure envelope.
func IllegalArgumentRo(msg string) Ro {
	return Ro{Result: RoIllegalArgument, Msg: msg}
}

// FailRo builds a system-fault envelope with diagnostic detail.
func FailRo(msg, detail string) Ro {
	return Ro{Result: RoFail, Msg: msg, Detail: detail}
}
