package main

import (
	"log"
	"os"
	"path/filepath"

	engine "github.com/agridata-lab/produce-report/internal/replay/engine/engine_v1"
	"github.com/agridata-lab/produce-report/internal/strategy"
	"github.com/agridata-lab/produce-report/pkg/utils"
	"gopkg.in/yaml.v2"
)

const (
	engineSchemaName   = "replay-engine-v1-config.json"
	engineSampleName   = "replay-engine-v1-config.yaml"
	strategySchemaName = "usda-report-strategy-config.json"
)

func main() {
	config := engine.EmptyConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		log.Fatalf("Failed to generate engine schema: %v", err)
	}

	configDir := "./config"
	schemaPath := filepath.Join(configDir, engineSchemaName)
	sampleConfigPath := filepath.Join(configDir, engineSampleName)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		log.Fatalf("Failed to write engine schema to file: %v", err)
	}

	// Write a sample engine config if one doesn't exist yet
	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(config)
		if err != nil {
			log.Fatalf("Failed to marshal sample config to yaml: %v", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+engineSchemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
			log.Fatalf("Failed to write sample config to file: %v", err)
		}

		log.Printf("Sample config successfully generated at %s", sampleConfigPath)
	}

	// Strategy config schema
	strategySchema, err := utils.GetSchemaFromConfig(&strategy.USDAReportConfig{})
	if err != nil {
		log.Fatalf("Failed to generate strategy schema: %v", err)
	}

	strategySchemaPath := filepath.Join(configDir, strategySchemaName)
	if err := os.WriteFile(strategySchemaPath, []byte(strategySchema), 0644); err != nil {
		log.Fatalf("Failed to write strategy schema to file: %v", err)
	}

	log.Printf("Schemas successfully generated at %s", configDir)
}
