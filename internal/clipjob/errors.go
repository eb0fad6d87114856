package clipjob

import "fmt"

// DownloadError covers failed video or section downloads. Clip-local:
// the batch logs it and moves on.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ExtractError covers failed segment cuts from an already-downloaded
// source.
type ExtractError struct {
	Source string
	Offset float64
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract clip at %.2fs from %s: %v", e.Offset, e.Source, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// FilesystemError covers directory creation and file verification
// failures around clip output.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// ToolMissingError aborts the run before any work starts.
type ToolMissingError struct {
	Tool string
	Err  error
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("required tool %s unavailable: %v", e.Tool, e.Err)
}

func (e *ToolMissingError) Unwrap() error { return e.Err }
