package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DecodeScene reads a JSON scene description. Unknown fields and trailing
// data are rejected.
func DecodeScene(r io.Reader) (scene.Description, error) {
	var desc scene.Description

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&desc); err != nil {
		return scene.Description{}, fmt.Errorf("failed to decode scene: %w", err)
	}
	if dec.More() {
		return scene.Description{}, errors.New("failed to decode scene: unexpected data after scene object")
	}
	return desc, nil
}

// EncodeScene writes desc as indented JSON
func EncodeScene(w io.Writer, desc scene.Description) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(desc); err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	return nil
}

// LoadSceneFile reads and builds the scene stored at path
func LoadSceneFile(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	desc, err := DecodeScene(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s, err := scene.Build(desc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// SaveSceneFile describes s and writes it to path
func SaveSceneFile(path string, s *scene.Scene) error {
	desc, err := scene.Describe(s)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodeScene(&buf, desc); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
