// Package errs implements the nested, source-preserving error taxonomy
// shared by every layer of the runtime. Every non-leaf type wraps its cause
// and exposes Unwrap so errors.Is/errors.As and %w formatting keep working,
// and so that Error() always renders the full chain down to the leaf
// message.
package errs

import "fmt"

// GeneralError is the leaf of the taxonomy: a plain message with no further
// cause.
type GeneralError struct {
	Message string
}

// Newf builds a GeneralError from a format string.
func Newf(format string, args ...any) *GeneralError {
	return &GeneralError{Message: fmt.Sprintf(format, args...)}
}

func (e *GeneralError) Error() string { return e.Message }

// LibraryDefinitionError reports a problem compiling or registering a
// module (ModuleSpecificError in the original taxonomy).
type LibraryDefinitionError struct {
	Cause error
}

func (e *LibraryDefinitionError) Error() string {
	return fmt.Sprintf("module specific error: %s", e.Cause)
}

func (e *LibraryDefinitionError) Unwrap() error { return e.Cause }

// LibraryInstanceError reports a problem instantiating a module or running
// its exec_func marshalling protocol (InstantiationError in the original
// taxonomy).
type LibraryInstanceError struct {
	Cause error
}

func (e *LibraryInstanceError) Error() string {
	return fmt.Sprintf("instantiation error: %s", e.Cause)
}

func (e *LibraryInstanceError) Unwrap() error { return e.Cause }

// ModuleDefinitionErrorKind tags which variant of ModuleDefinitionError a
// value carries.
type ModuleDefinitionErrorKind int

const (
	ModulePathInvalid ModuleDefinitionErrorKind = iota
	ModuleNotFound
	ModuleTypeNotFound
	ModuleCannotBeInstantiated
)

func (k ModuleDefinitionErrorKind) String() string {
	switch k {
	case ModulePathInvalid:
		return "ModulePathInvalid"
	case ModuleNotFound:
		return "ModuleNotFound"
	case ModuleTypeNotFound:
		return "ModuleTypeNotFound"
	case ModuleCannotBeInstantiated:
		return "ModuleCannotBeInstantiated"
	default:
		return "ModuleDefinitionError"
	}
}

// ModuleDefinitionError is the tagged sum of everything that can go wrong
// resolving or instantiating a module for a process.
type ModuleDefinitionError struct {
	Kind  ModuleDefinitionErrorKind
	Cause error
}

func (e *ModuleDefinitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
}

func (e *ModuleDefinitionError) Unwrap() error { return e.Cause }

// NewModulePathInvalid builds a ModuleDefinitionError for a missing or
// nonexistent search path.
func NewModulePathInvalid(format string, args ...any) *ModuleDefinitionError {
	return &ModuleDefinitionError{Kind: ModulePathInvalid, Cause: Newf(format, args...)}
}

// NewModuleNotFound builds a ModuleDefinitionError for a module name that
// does not resolve in any configured search path.
func NewModuleNotFound(format string, args ...any) *ModuleDefinitionError {
	return &ModuleDefinitionError{Kind: ModuleNotFound, Cause: Newf(format, args...)}
}

// NewModuleTypeNotFound builds a ModuleDefinitionError for a process
// referencing a backend with no registered library manager.
func NewModuleTypeNotFound(format string, args ...any) *ModuleDefinitionError {
	return &ModuleDefinitionError{Kind: ModuleTypeNotFound, Cause: Newf(format, args...)}
}

// NewModuleCannotBeInstantiated wraps a LibraryDefinitionError surfaced by a
// backend's get_instance.
func NewModuleCannotBeInstantiated(cause *LibraryDefinitionError) *ModuleDefinitionError {
	return &ModuleDefinitionError{Kind: ModuleCannotBeInstantiated, Cause: cause}
}

// JobValidationError reports that the job's pipeline could not be validated.
// Currently the only variant is PipelineForJobNotFound.
type JobValidationError struct {
	Cause error
}

func (e *JobValidationError) Error() string {
	return fmt.Sprintf("pipeline for job not found: %s", e.Cause)
}

func (e *JobValidationError) Unwrap() error { return e.Cause }

// NewPipelineForJobNotFound builds a JobValidationError naming the missing
// pipeline.
func NewPipelineForJobNotFound(format string, args ...any) *JobValidationError {
	return &JobValidationError{Cause: Newf(format, args...)}
}

// JobRunErrorKind tags which variant of JobRunError a value carries.
type JobRunErrorKind int

const (
	JobStartError JobRunErrorKind = iota
	JobValidationErrorKind
	JobModuleDefinitionErrorKind
	JobModuleInstantiationErrorKind
)

func (k JobRunErrorKind) String() string {
	switch k {
	case JobStartError:
		return "JobStartError"
	case JobValidationErrorKind:
		return "JobValidationError"
	case JobModuleDefinitionErrorKind:
		return "JobModuleDefinitionError"
	case JobModuleInstantiationErrorKind:
		return "JobModuleInstantiationError"
	default:
		return "JobRunError"
	}
}

// JobRunError is the tagged sum of everything that can fail a job run.
type JobRunError struct {
	Kind  JobRunErrorKind
	Cause error
}

func (e *JobRunError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
}

func (e *JobRunError) Unwrap() error { return e.Cause }

// NewJobValidationError wraps a JobValidationError as a JobRunError.
func NewJobValidationError(cause *JobValidationError) *JobRunError {
	return &JobRunError{Kind: JobValidationErrorKind, Cause: cause}
}

// NewJobModuleDefinitionError wraps a ModuleDefinitionError as a JobRunError.
func NewJobModuleDefinitionError(cause *ModuleDefinitionError) *JobRunError {
	return &JobRunError{Kind: JobModuleDefinitionErrorKind, Cause: cause}
}

// NewJobModuleInstantiationError wraps a LibraryInstanceError as a
// JobRunError.
func NewJobModuleInstantiationError(cause *LibraryInstanceError) *JobRunError {
	return &JobRunError{Kind: JobModuleInstantiationErrorKind, Cause: cause}
}

// AppDefinitionError reports that an application document failed to parse
// or validate. Cause is the underlying YAML error (or a synthetic one for
// structural problems this package checks for itself, e.g. a missing
// `general` field).
type AppDefinitionError struct {
	Cause error
}

func (e *AppDefinitionError) Error() string {
	return fmt.Sprintf("Invalid App definition. Error in Yaml file: %s", e.Cause)
}

func (e *AppDefinitionError) Unwrap() error { return e.Cause }
