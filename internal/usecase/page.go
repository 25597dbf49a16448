package usecase

// Page selects a window of a list. A zero Limit means no limit.
type Page struct {
	Limit  uint64
	Offset uint64
}
