package index

import (
	"encoding/json"
	"fmt"

	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
)

// synonymDoc is the stored form of a synonym map: one equivalence group per line.
type synonymDoc struct {
	Name     string   `json:"name"`
	Format   string   `json:"format"`
	Synonyms []string `json:"synonyms"`
}

func definitionToHash(def *domidx.Definition) (map[string]string, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal index definition: %w", err)
	}
	return map[string]string{
		"name":       def.Name,
		"definition": string(data),
	}, nil
}

func definitionFromHash(m map[string]string) (domidx.Definition, error) {
	var def domidx.Definition
	if err := json.Unmarshal([]byte(m["definition"]), &def); err != nil {
		return domidx.Definition{}, fmt.Errorf("unmarshal index definition %s: %w", m["name"], err)
	}
	return def, nil
}
