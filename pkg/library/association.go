package library

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Manifest is an association manifest:
//
//	{
//	  "asn_pool": "...",
//	  "asn_id": "...",
//	  "products": [
//	    {"name": "...", "members": [{"expname": "...", "exptype": "...", "group_id": "..."}]}
//	  ]
//	}
//
// Only the first product is used by a library, the others are preserved.
type Manifest map[string]any

const (
	keyProducts        = "products"
	keyMembers         = "members"
	keyExpName         = "expname"
	keyExpType         = "exptype"
	keyGroupID         = "group_id"
	keyTweakregCatalog = "tweakreg_catalog"
	keyTableName       = "table_name"
	keyAsnPool         = "asn_pool"
)

// member is one entry of the first product member list. It aliases the map
// stored in the association tree, so writes are visible in the tree.
type member map[string]any

func (m member) str(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

func (m member) expName() string { return m.str(keyExpName) }

func (m member) expType() string { return m.str(keyExpType) }

func (m member) groupID() (string, bool) {
	if _, ok := m[keyGroupID]; !ok {
		return "", false
	}

	return m.str(keyGroupID), true
}

// path resolves the member file name against base.
func (m member) path(base string) string {
	name := m.expName()
	if filepath.IsAbs(name) || base == "" {
		return name
	}

	return filepath.Join(base, name)
}

// applyTo writes the member metadata and the association provenance into model.
func (m member) applyTo(model Model, asn map[string]any) {
	meta := model.Meta()
	if v, ok := m.groupID(); ok {
		meta.GroupID = v
	}
	if _, ok := m[keyTweakregCatalog]; ok {
		meta.TweakregCatalog = m.str(keyTweakregCatalog)
	}
	if _, ok := m[keyExpType]; ok {
		meta.ExpType = m.expType()
	}
	meta.Asn.TableName = stringValue(asn[keyTableName])
	meta.Asn.PoolName = stringValue(asn[keyAsnPool])
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

// association is the mutable manifest owned by a library.
type association struct {
	tree    map[string]any
	product map[string]any
	members []member
}

// newAssociation takes ownership of tree, which must already be a private copy.
func newAssociation(tree map[string]any) (*association, error) {
	products, ok := tree[keyProducts].([]any)
	if !ok || len(products) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "association has no products")
	}
	product, ok := products[0].(map[string]any)
	if !ok {
		return nil, errors.Wrap(ErrInvalidInput, "association product is not a mapping")
	}
	rawMembers, ok := product[keyMembers].([]any)
	if !ok && product[keyMembers] != nil {
		return nil, errors.Wrap(ErrInvalidInput, "association members is not a list")
	}
	members := make([]member, len(rawMembers))
	for i, raw := range rawMembers {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidInput, "association member %d is not a mapping", i)
		}
		members[i] = m
	}

	return &association{tree: tree, product: product, members: members}, nil
}

// filter keeps the members whose exposure type is in exptypes, then the first maxMembers.
// A nil exptypes or a negative maxMembers disables the matching filter.
func (a *association) filter(exptypes []string, maxMembers int) {
	if exptypes != nil {
		kept := a.members[:0]
		for _, m := range a.members {
			if containsFold(exptypes, m.expType()) {
				kept = append(kept, m)
			}
		}
		a.members = kept
	}
	if maxMembers >= 0 && len(a.members) > maxMembers {
		a.members = a.members[:maxMembers]
	}

	raw := make([]any, len(a.members))
	for i, m := range a.members {
		raw[i] = map[string]any(m)
	}
	a.product[keyMembers] = raw
}

func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}

	return false
}

// syntheticManifest builds the manifest of a library made from models.
func syntheticManifest(members []member) map[string]any {
	raw := make([]any, len(members))
	for i, m := range members {
		raw[i] = map[string]any(m)
	}

	return map[string]any{
		keyProducts: []any{
			map[string]any{keyMembers: raw},
		},
	}
}

// deepCopy returns a private copy of a manifest value. Maps and slices of
// any supported kind are normalised to map[string]any and []any.
func deepCopy(value any) any {
	switch v := value.(type) {
	case Manifest:
		return deepCopyMap(v)
	case map[string]any:
		return deepCopyMap(v)
	case map[string]string:
		res := make(map[string]any, len(v))
		for k, s := range v {
			res[k] = s
		}

		return res
	case []any:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = deepCopy(e)
		}

		return res
	case []map[string]any:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = deepCopyMap(e)
		}

		return res
	case []Manifest:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = deepCopyMap(e)
		}

		return res
	case []string:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = e
		}

		return res
	default:
		if res, ok := copyContainer(v); ok {
			return res
		}

		return v
	}
}

// copyContainer copies maps, slices and arrays of any element type. Map keys
// are formatted with fmt.Sprint.
func copyContainer(value any) (any, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return map[string]any(nil), true
		}
		res := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			res[fmt.Sprint(iter.Key().Interface())] = deepCopy(iter.Value().Interface())
		}

		return res, true
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any(nil), true
		}
		res := make([]any, rv.Len())
		for i := range res {
			res[i] = deepCopy(rv.Index(i).Interface())
		}

		return res, true
	default:
		return nil, false
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	res := make(map[string]any, len(m))
	for k, v := range m {
		res[k] = deepCopy(v)
	}

	return res
}
