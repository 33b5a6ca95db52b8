package index

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/furnimatch/internal/db"
	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
)

// buildIndex maps a declarative index definition onto an FT.CREATE schema over
// JSON documents. Fields that are neither searchable nor filterable are stored
// but not indexed. The key is always indexed so hits can be resolved by id.
func buildIndex(def *domidx.Definition) (*db.IndexDefinition, error) {
	_, algo, _, err := def.VectorLeaf()
	if err != nil {
		return nil, err
	}

	schema := db.NewSchema(def.Name, def.KeyPrefix)
	for _, lf := range def.Leaves() {
		if !lf.Searchable && !lf.Filterable && lf.Kind != domidx.KindKey {
			continue
		}

		switch lf.Kind {
		case domidx.KindText:
			schema.Text(lf.Path, lf.Alias)
		case domidx.KindKey, domidx.KindBool:
			schema.Tag(lf.Path, lf.Alias, false)
		case domidx.KindTag:
			// Sorting on a multi-valued tag is rejected by the server.
			schema.Tag(lf.Path, lf.Alias, lf.Sortable && !lf.Collection)
		case domidx.KindNumeric:
			schema.Numeric(lf.Path, lf.Alias, lf.Sortable)
		case domidx.KindVector:
			metric, err := distanceMetric(algo.Metric)
			if err != nil {
				return nil, err
			}
			schema.Vector(lf.Path, lf.Alias, db.HNSW{
				Dim:            lf.Dimensions,
				Distance:       metric,
				M:              algo.M,
				EFConstruction: algo.EFConstruction,
				EFRuntime:      algo.EFSearch,
			})
		default:
			return nil, fmt.Errorf("field %s: unsupported kind %q", lf.Alias, lf.Kind)
		}
	}
	return schema.Build()
}

func distanceMetric(name string) (db.DistanceMetric, error) {
	switch strings.ToLower(name) {
	case "", "cosine":
		return db.DistanceCosine, nil
	case "euclidean", "l2":
		return db.DistanceL2, nil
	case "dotproduct", "ip":
		return db.DistanceIP, nil
	default:
		return "", fmt.Errorf("unsupported vector metric %q", name)
	}
}
