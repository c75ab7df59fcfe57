package normalize

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/skaffolder/pkg/discovery"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/fields"
)

// TypeName derives the resource type from a collection name:
// "backendServices" becomes "BackendService".
func TypeName(collection string) string {
	return cases.Title(language.English, cases.NoLower).String(inflection.Singular(collection))
}

// ParamName converts a URL parameter such as "projectsId" into the
// singular snake case variable name "project".
func ParamName(name string) string {
	name = strings.TrimSuffix(name, "Id")
	return snakeCase(inflection.Singular(name))
}

func snakeCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

var urlVariable = regexp.MustCompile(`\{([^}]*)\}`)

// BaseURL strips the version prefix from flatPath and rewrites every
// {fooId} variable to {{foo}}.
func BaseURL(flatPath, version string) string {
	base := strings.TrimPrefix(flatPath, version+"/")
	return urlVariable.ReplaceAllStringFunc(base, func(m string) string {
		return "{{" + ParamName(m[1:len(m)-1]) + "}}"
	})
}

// Resource builds the definition the discovery document implies for the
// typeName schema served by the resourceName collection.
func (n *Normalizer) Resource(ctx context.Context, resourceName, typeName string) (*fields.Resource, error) {
	schema, err := n.doc.Schema(typeName)
	if err != nil {
		return nil, err
	}
	collection, err := n.doc.FindResource(resourceName)
	if err != nil {
		return nil, err
	}
	method, ok := collection.CreateMethod()
	if !ok {
		return nil, errors.NewSchemaError(resourceName, "", "no insert or create method found on resource "+resourceName)
	}

	props, err := n.Schema(ctx, typeName)
	if err != nil {
		return nil, err
	}

	res := fields.NewResource(typeName)
	res.Product = n.doc.Name
	res.APIKind = schema.Kind()
	res.BaseURL = BaseURL(method.FlatPath, n.doc.Version)
	res.Properties = props

	switch {
	case schema.Properties.Has("selfLink") || schema.Properties.Has("self_link"):
		res.HasSelfLink = fields.InferredFlag(true)
	case schema.Properties.Has("name"):
		res.SelfLink = res.BaseURL + "/{{name}}"
	}

	if patch := collection.Method("patch"); patch != nil {
		res.UpdateVerb = ":PATCH"
		if patch.Parameters.Has("updateMask") {
			res.UpdateMask = fields.InferredFlag(true)
		}
	}

	if err := n.createLink(ctx, res, typeName, schema.Properties.Get("name"), method.Parameters); err != nil {
		return nil, err
	}

	if hasParameter(res.Parameters, "name", "selfLink") {
		kept := res.Properties[:0:0]
		for _, p := range res.Properties {
			if p.Name != "name" && p.Name != "selfLink" {
				kept = append(kept, p)
			}
		}
		res.Properties = kept
	}
	return res, nil
}

// createLink fills import format, URL parameters and the create URL from
// the required parameters of the create method.
func (n *Normalizer) createLink(ctx context.Context, res *fields.Resource, typeName string, nameSchema *discovery.Schema, params discovery.Properties) error {
	idName := strings.ToLower(typeName[:1]) + typeName[1:] + "Id"
	if !params.Has(idName) && nameSchema == nil {
		return nil
	}

	res.ImportFormat = []string{res.BaseURL + "/{{name}}"}
	readable := strings.ReplaceAll(ParamName(typeName), "_", " ")

	var query []string
	for _, p := range params {
		if !p.Schema.Required {
			continue
		}
		switch p.Name {
		case "updateMask":
			continue
		case idName:
			src := nameSchema
			if src == nil {
				src = p.Schema
			}
			f, err := n.Field(ctx, "name", src)
			if err != nil {
				return err
			}
			f.Description = "A user-defined name which uniquely identifies a " + readable + "."
			f.Required.Infer(true)
			f.URLParamOnly = true
			res.Parameters = append(res.Parameters, f)
			if p.Schema.Location == "query" {
				query = append(query, p.Name+"={{name}}")
			}
		case "parent":
			f, err := n.Field(ctx, "location", p.Schema)
			if err != nil {
				return err
			}
			f.Description = "the location of the " + readable + "."
			f.URLParamOnly = true
			res.Parameters = append(res.Parameters, f)
			if p.Schema.Location == "query" {
				query = append(query, p.Name+"={{location}}")
			}
		default:
			name := ParamName(p.Name)
			f, err := n.Field(ctx, name, p.Schema)
			if err != nil {
				return err
			}
			res.Parameters = append(res.Parameters, f)
			if p.Schema.Location == "query" {
				query = append(query, p.Name+"={{"+name+"}}")
			}
		}
	}

	if len(query) > 0 {
		res.CreateURL = res.BaseURL + "/?" + strings.Join(query, "&")
	}
	return nil
}

func hasParameter(params []*fields.Field, names ...string) bool {
	for _, p := range params {
		for _, name := range names {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}
