package schemas

// ErrorResponse struct
type ErrorResponse struct {
	Error       bool
	Type        string
	Problem     string
	Description string
}

// Message struct
type Message struct {
	Message string
}
