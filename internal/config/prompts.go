package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prompts переопределяет встроенные шаблоны промптов генератора.
// Пустое поле означает «использовать встроенный шаблон».
type Prompts struct {
	Events string `yaml:"events"`
	News   string `yaml:"news"`
	Ticker string `yaml:"ticker"`
}

// LoadPrompts загружает шаблоны промптов из YAML файла
func LoadPrompts(filePath string) (*Prompts, error) {
	if filePath == "" {
		return nil, fmt.Errorf("prompts file path is empty")
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("prompts file not found: %s: %w", filePath, err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompts file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close prompts file: %v\n", closeErr)
		}
	}()

	var prompts Prompts
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompts YAML: %w", err)
	}

	if err := validatePrompts(&prompts); err != nil {
		return nil, err
	}

	return &prompts, nil
}

// LoadPrompts загружает промпты из prompts_file; без файла возвращает пустой набор
func (c *Config) LoadPrompts() (*Prompts, error) {
	if c.PromptsFile == "" {
		return &Prompts{}, nil
	}
	return LoadPrompts(c.PromptsFile)
}

// validatePrompts проверяет, что файл переопределяет хотя бы один шаблон
func validatePrompts(p *Prompts) error {
	if strings.TrimSpace(p.Events) == "" && strings.TrimSpace(p.News) == "" && strings.TrimSpace(p.Ticker) == "" {
		return fmt.Errorf("prompts file defines no templates (events, news, ticker)")
	}
	return nil
}
