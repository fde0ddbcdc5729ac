package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrIndexNotFound is returned when an index is not found
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexAlreadyExists is returned when trying to create an index that already exists
	ErrIndexAlreadyExists = errors.New("index already exists")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrSameName is returned when trying to rename to the same name
	ErrSameName = errors.New("same name provided")

	// ErrInvalidConfig is returned when a configuration value is malformed
	// or references an unknown component (tokenizer, filter, analyzer).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConflict is returned when an operation would violate a uniqueness
	// constraint (e.g. registering an analyzer name twice).
	ErrConflict = errors.New("conflict")

	// ErrTransientIO is returned for a storage-tier failure expected to
	// succeed on retry (network blip, connection reset).
	ErrTransientIO = errors.New("transient I/O error")

	// ErrPersistence is returned when a durable write could not be
	// completed after retries and requires operator attention.
	ErrPersistence = errors.New("persistence error")

	// ErrDataLossPrevention is returned when an operation is refused
	// because completing it would silently lose previously durable data.
	ErrDataLossPrevention = errors.New("refused to risk data loss")

	// ErrComponentNotFound is returned when a config references an
	// unregistered tokenizer, filter, or analyzer name.
	ErrComponentNotFound = errors.New("component not found")
)

// IndexNotFoundError represents an index not found error with context
type IndexNotFoundError struct {
	IndexName string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index named '%s' not found", e.IndexName)
}

func (e *IndexNotFoundError) Is(target error) bool {
	return target == ErrIndexNotFound
}

// NewIndexNotFoundError creates a new IndexNotFoundError
func NewIndexNotFoundError(indexName string) *IndexNotFoundError {
	return &IndexNotFoundError{IndexName: indexName}
}

// IndexAlreadyExistsError represents an index already exists error with context
type IndexAlreadyExistsError struct {
	IndexName string
}

func (e *IndexAlreadyExistsError) Error() string {
	return fmt.Sprintf("index named '%s' already exists", e.IndexName)
}

func (e *IndexAlreadyExistsError) Is(target error) bool {
	return target == ErrIndexAlreadyExists
}

// NewIndexAlreadyExistsError creates a new IndexAlreadyExistsError
func NewIndexAlreadyExistsError(indexName string) *IndexAlreadyExistsError {
	return &IndexAlreadyExistsError{IndexName: indexName}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
	IndexName  string
}

func (e *DocumentNotFoundError) Error() string {
	if e.IndexName != "" {
		return fmt.Sprintf("document with ID '%s' not found in index '%s'", e.DocumentID, e.IndexName)
	}
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID string, indexName ...string) *DocumentNotFoundError {
	err := &DocumentNotFoundError{DocumentID: documentID}
	if len(indexName) > 0 {
		err.IndexName = indexName[0]
	}
	return err
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// SameNameError represents an error when trying to rename to the same name
type SameNameError struct {
	Name string
}

func (e *SameNameError) Error() string {
	return fmt.Sprintf("new name '%s' is the same as the current name", e.Name)
}

func (e *SameNameError) Is(target error) bool {
	return target == ErrSameName
}

// NewSameNameError creates a new SameNameError
func NewSameNameError(name string) *SameNameError {
	return &SameNameError{Name: name}
}

// InvalidConfigError represents a malformed configuration value, such as an
// analyzer referencing an unknown tokenizer or filter.
type InvalidConfigError struct {
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func NewInvalidConfigError(reason string) *InvalidConfigError {
	return &InvalidConfigError{Reason: reason}
}

// ConflictError represents a uniqueness violation, such as re-registering
// an analyzer name.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// TransientIOError wraps a storage-tier failure expected to succeed on
// retry. The queues in internal/queue do not inspect it: they retry every
// failed job alike, up to their attempt limit.
type TransientIOError struct {
	Op  string
	Err error
}

func (e *TransientIOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient I/O error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("transient I/O error during %s", e.Op)
}

func (e *TransientIOError) Is(target error) bool {
	return target == ErrTransientIO
}

func (e *TransientIOError) Unwrap() error {
	return e.Err
}

func NewTransientIOError(op string, cause error) *TransientIOError {
	return &TransientIOError{Op: op, Err: cause}
}

// PersistenceError represents a durable write that could not be completed
// after retries.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence error during %s", e.Op)
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Err: cause}
}

// DataLossPreventionError represents an operation refused because
// completing it would silently lose previously durable data.
type DataLossPreventionError struct {
	Reason string
}

func (e *DataLossPreventionError) Error() string {
	return fmt.Sprintf("refused to risk data loss: %s", e.Reason)
}

func (e *DataLossPreventionError) Is(target error) bool {
	return target == ErrDataLossPrevention
}

func NewDataLossPreventionError(reason string) *DataLossPreventionError {
	return &DataLossPreventionError{Reason: reason}
}

// AnalyzerNotFoundError represents a reference to an unregistered
// tokenizer, filter, or analyzer name.
type AnalyzerNotFoundError struct {
	Kind string
	Name string
}

func (e *AnalyzerNotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
}

func (e *AnalyzerNotFoundError) Is(target error) bool {
	return target == ErrComponentNotFound
}

func NewAnalyzerNotFoundError(kind, name string) *AnalyzerNotFoundError {
	return &AnalyzerNotFoundError{Kind: kind, Name: name}
}
