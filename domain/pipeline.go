package domain

// Pipeline is a trained pipeline that can serialize itself into a directory.
// The checkpoint format is owned entirely by the implementation.
type Pipeline interface {
	Save(dir string) error
}
