package sink

// DestinationError reports a failed operation against the destination store.
type DestinationError struct {
	Op    string
	Sheet string
	Err   error
}

func (e *DestinationError) Error() string {
	return "sink: " + e.Op + " " + e.Sheet + ": " + e.Err.Error()
}

func (e *DestinationError) Unwrap() error {
	return e.Err
}

func destErr(op, sheet string, err error) error {
	return &DestinationError{Op: op, Sheet: sheet, Err: err}
}
