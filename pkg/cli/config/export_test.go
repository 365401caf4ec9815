package config

// NewDictionaryForTest creates a Dictionary config for testing purposes
func NewDictionaryForTest(keyType, format string) *Dictionary {
	return &Dictionary{
		keyType: keyType,
		format:  format,
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, path, bucket, projectID string) *Storage {
	return &Storage{
		backend:   backend,
		path:      path,
		bucket:    bucket,
		projectID: projectID,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
