package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
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

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, embeddingProvider, openaiAPIKey, claudeAPIKey string) *LLM {
	return &LLM{
		provider:          provider,
		embeddingProvider: embeddingProvider,
		openaiAPIKey:      openaiAPIKey,
		claudeAPIKey:      claudeAPIKey,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, chromemPath string) *Repository {
	return &Repository{
		backend:     backend,
		chromemPath: chromemPath,
	}
}

// NewMemoryForTest creates a Memory config for testing purposes
func NewMemoryForTest(extraction string, cacheSize int64) *Memory {
	return &Memory{
		extraction: extraction,
		cacheSize:  cacheSize,
	}
}

// NewAppForTest creates an App config for testing purposes
func NewAppForTest(path string) *App {
	return &App{path: path}
}
