package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModelCardFilename is where the generated model card lands inside the
// working copy.
const ModelCardFilename = "README.md"

const autogeneratedComment = `
<!-- This model card has been generated automatically according to the information the Trainer had access to. You
should probably proofread and complete it, then remove this comment. -->
`

// cardMetadata is the YAML front-matter of the model card. Field order is
// the emission order.
type cardMetadata struct {
	License string   `yaml:"license"`
	Tags    []string `yaml:"tags"`
}

// BuildModelCard renders a minimal model card: YAML front-matter, the
// autogenerated-content disclaimer and a title. The body is intentionally
// left empty.
func BuildModelCard(modelName string) (string, error) {
	metadata, err := yaml.Marshal(cardMetadata{
		License: "apache-2.0",
		Tags:    []string{"pytorch", "diffusers"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize model card metadata: %w", err)
	}

	var card strings.Builder
	if len(metadata) > 0 {
		card.WriteString("---\n")
		card.Write(metadata)
		card.WriteString("---\n")
	}
	card.WriteString(autogeneratedComment)
	card.WriteString("\n# " + modelName + "\n\n")

	return card.String(), nil
}

// WriteModelCard renders the model card for modelName and writes it to the
// repository root, overwriting any existing one.
func WriteModelCard(outputDir, modelName string) error {
	card, err := BuildModelCard(modelName)
	if err != nil {
		return err
	}

	path := filepath.Join(outputDir, ModelCardFilename)
	if writeErr := os.WriteFile(path, []byte(card), cardFileMode); writeErr != nil {
		return fmt.Errorf("failed to write model card %q: %w", path, writeErr)
	}
	return nil
}
