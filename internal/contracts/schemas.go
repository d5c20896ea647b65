package contracts

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()

	err := fs.WalkDir(schemasFS, "schemas", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		file, err := schemasFS.Open(p)
		if err != nil {
			return err
		}
		defer file.Close()
		return compiler.AddResource(p, file)
	})
	if err != nil {
		log.Fatalf("failed to add schema resources: %v", err)
	}

	err = fs.WalkDir(schemasFS, "schemas", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		schema, err := compiler.Compile(p)
		if err != nil {
			return fmt.Errorf("could not compile schema %s: %w", p, err)
		}
		key := strings.TrimSuffix(path.Base(p), ".json")
		compiledSchemas[key] = schema
		return nil
	})
	if err != nil {
		log.Fatalf("failed to compile schemas: %v", err)
	}
}

// Validate checks a decoded JSON document against the named embedded schema.
// The document must come from encoding/json (optionally with UseNumber).
func Validate(name string, doc any) error {
	schema, ok := compiledSchemas[name]
	if !ok {
		return fmt.Errorf("unknown schema: %s", name)
	}
	return schema.Validate(doc)
}
