package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *PkgForgeError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *PkgForgeError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *PkgForgeError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Pipeline errors

func PhaseFailed(phase string, cause error) *PkgForgeError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "phase failed").
		WithContext("phase", phase)
}

func PreconditionFailed(phase, reason string) *PkgForgeError {
	return New(CategoryBuild, SeverityFatal, "phase precondition failed").
		WithContext("phase", phase).
		WithContext("reason", reason)
}

// Catalog errors

func ExtractionFailed(cause error) *PkgForgeError {
	return Wrap(cause, CategoryCatalog, SeverityFatal, "message extraction failed")
}

func CatalogMalformed(path string, cause error) *PkgForgeError {
	return Wrap(cause, CategoryCatalog, SeverityFatal, "locale catalog is malformed").
		WithContext("path", path)
}

func CatalogCompileFailed(locale string, cause error) *PkgForgeError {
	return Wrap(cause, CategoryCatalog, SeverityFatal, "catalog compilation failed").
		WithContext("locale", locale)
}

// Staging errors

func StagingEscape(root, path string) *PkgForgeError {
	return New(CategoryStage, SeverityFatal, "install path escapes staging root").
		WithContext("root", root).
		WithContext("path", path)
}

func StagingFailed(operation string, cause error) *PkgForgeError {
	return Wrap(cause, CategoryStage, SeverityFatal, "staging operation failed").
		WithContext("operation", operation)
}

// External tool errors

func CommandFailed(name string, cause error) *PkgForgeError {
	return Wrap(cause, CategoryExec, SeverityFatal, "delegated command failed").
		WithContext("command", name)
}

func DocGenerationFailed(format string, cause error) *PkgForgeError {
	return Wrap(cause, CategoryDocs, SeverityFatal, "documentation generation failed").
		WithContext("format", format)
}

func ArchiveAssemblyFailed(pkg string, cause error) *PkgForgeError {
	return Wrap(cause, CategoryArchive, SeverityFatal, "archive assembly failed").
		WithContext("package", pkg)
}
