package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// writeOutput prints v as indented JSON or as YAML. YAML keys follow the
// JSON field names and order.
func writeOutput(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	switch format {
	case "json", "":
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "yml":
		return writeYAML(w, data)
	}
	return fmt.Errorf("unknown format %q (use json or yaml)", format)
}

func writeYAML(w io.Writer, jsonData []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(jsonData, &node); err != nil {
		return fmt.Errorf("failed to convert result: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles carried over from JSON
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
