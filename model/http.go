package model

type ErrorResponse struct {
	Error string `json:"detail"`
}

// ParamsPatch is a partial update; nil fields are left alone.
type ParamsPatch struct {
	PitchCount      *int     `json:"pitch_count,omitempty"`
	Window          *int     `json:"window,omitempty"`
	Offset          *int     `json:"offset,omitempty"`
	OctaveBias      *float64 `json:"octave_bias,omitempty"`
	DurationBias    *float64 `json:"duration_bias,omitempty"`
	IntervalMode    *string  `json:"interval_mode,omitempty"`
	SuppressRepeats *bool    `json:"suppress_repeats,omitempty"`
}

type ParamsView struct {
	PitchCount      int     `json:"pitch_count"`
	Window          int     `json:"window"`
	Offset          int     `json:"offset"`
	OctaveBias      float64 `json:"octave_bias"`
	DurationBias    float64 `json:"duration_bias"`
	IntervalMode    string  `json:"interval_mode"`
	SuppressRepeats bool    `json:"suppress_repeats"`
}

type StateView struct {
	Id         string      `json:"id"`
	Params     ParamsView  `json:"params"`
	Weights    [12]float64 `json:"weights"`
	Ages       [12]int     `json:"ages"`
	TargetMask uint16      `json:"target_mask"`
	Distances  [12]int     `json:"distances"`
	Fill       int         `json:"fill"`
}

type NoteInput struct {
	Volts    float64 `json:"volts"`
	Duration float64 `json:"duration"`
}

type NotesRequestBody struct {
	Notes []NoteInput `json:"notes"`
}

// ClearRequestBody keeps the newest Prime notes. A missing prime falls
// back to the default; 0 clears everything.
type ClearRequestBody struct {
	Prime *int `json:"prime,omitempty"`
}

type SessionsResponse struct {
	Ids []string `json:"ids"`
}

type QuantizeRequestBody struct {
	Volts []float64 `json:"volts"`
}

type QuantizeResponse struct {
	Volts []float64 `json:"volts"`
}
