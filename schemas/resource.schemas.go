package schemas

// PhotoSchema struct
type PhotoSchema struct {
	ID    string
	Owner string
	Size  int64
	URL   string
}
