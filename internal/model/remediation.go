package model

type FileError struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

func (e FileError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// RemediationResult summarizes one cleanup pass over a scratch directory.
type RemediationResult struct {
	Target  string      `json:"target"`
	Removed int         `json:"removed"`
	Errors  []FileError `json:"errors,omitempty"`
}
