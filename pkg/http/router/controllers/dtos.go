package controllers

type planRoutesRequest struct {
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
	VehicleType string `json:"vehicle_type"`
}

type reportAccidentRequest struct {
	Latitude    float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	ReporterID  string  `json:"reporter_id"`
}

type voteAccidentRequest struct {
	AccidentID string `json:"accident_id" validate:"required"`
	VoteType   string `json:"vote_type" validate:"required,oneof=up down"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
