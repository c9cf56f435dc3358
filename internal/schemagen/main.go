// Command schemagen regenerates the JSON schema used to validate rule
// document front-matter.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/macropower/regent/pkg/rules"
)

var outFile = flag.String("o", "frontmatter.v1beta1.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}

	js := r.Reflect(&rules.Frontmatter{})
	js.ID = "https://github.com/macropower/regent/pkg/rules/frontmatter"
	js.Version = "https://json-schema.org/draft/2020-12/schema"

	jsData, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, append(jsData, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
