package config

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"
)

// loadYAMLFile decodes the YAML document at path into out, rejecting unknown keys so a typo in a
// config file fails at load time instead of being silently ignored.
func loadYAMLFile(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	return decoder.Decode(out)
}

// dumpYAML marshals v back to YAML with a two-space indent, for logging the effective
// configuration at startup.
func dumpYAML(v interface{}) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return "", err
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
