package discovery

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"anino/internal/engine/parser"
	"anino/internal/engine/resolver"
)

const groupSuffix = "Controller"

var groupAttributes = map[string]bool{"ApiController": true, "Controller": true}

var verbAttributes = map[string]string{
	"HttpGet":    http.MethodGet,
	"HttpPost":   http.MethodPost,
	"HttpPut":    http.MethodPut,
	"HttpDelete": http.MethodDelete,
	"HttpPatch":  http.MethodPatch,
}

// Non-generic action results; a ProducesResponseType typeof replaces them as
// the return type.
var untypedResults = map[string]bool{"IActionResult": true, "ActionResult": true, "IResult": true}

var asyncWrappers = map[string]bool{"Task": true, "ValueTask": true}

var (
	groupToken   = regexp.MustCompile(`(?i)\[(controller|group)\]`)
	actionToken  = regexp.MustCompile(`(?i)\[action\]`)
	statusDigits = regexp.MustCompile(`[1-5][0-9]{2}`)
)

// IsGroup reports whether decl owns a base route: a concrete class named
// with the group suffix or carrying a grouping attribute.
func IsGroup(decl *parser.TypeDecl) bool {
	if decl.Kind != parser.KindClass || decl.HasModifier("abstract") {
		return false
	}
	if strings.HasSuffix(decl.Name, groupSuffix) && decl.Name != groupSuffix {
		return true
	}
	for _, attr := range decl.Attributes {
		if groupAttributes[attr.ShortName()] {
			return true
		}
	}
	return false
}

// GroupName is the declaration name without the group suffix.
func GroupName(decl *parser.TypeDecl) string {
	if decl.Name == groupSuffix {
		return decl.Name
	}
	return strings.TrimSuffix(decl.Name, groupSuffix)
}

// BaseRoute is the group's route template with the group placeholder
// substituted, or /api/<group> without one.
func BaseRoute(decl *parser.TypeDecl) string {
	name := strings.ToLower(GroupName(decl))
	if tmpl, ok := routeTemplate(decl.Attributes); ok {
		return groupToken.ReplaceAllLiteralString(tmpl, name)
	}
	return "/api/" + name
}

// ExtractGroups finds the attribute-routed endpoints declared in file.
func ExtractGroups(file *parser.File) []*Endpoint {
	var out []*Endpoint
	for _, decl := range file.Types {
		if !IsGroup(decl) {
			continue
		}
		base := BaseRoute(decl)
		for _, m := range decl.Methods {
			if !m.HasModifier("public") || m.HasModifier("static") {
				continue
			}
			if ep := groupEndpoint(decl, m, base); ep != nil {
				out = append(out, ep)
			}
		}
	}
	return out
}

func groupEndpoint(decl *parser.TypeDecl, m *parser.Method, base string) *Endpoint {
	verb, fragment, ok := verbAttribute(m.Attributes)
	if !ok {
		return nil
	}
	if fragment == "" {
		fragment, _ = routeTemplate(m.Attributes)
	}
	action := strings.ToLower(strings.TrimSuffix(m.Name, "Async"))
	path := CombineRoutes(actionToken.ReplaceAllLiteralString(base, action), actionToken.ReplaceAllLiteralString(fragment, action))

	ep := &Endpoint{
		Path:       path,
		Method:     verb,
		StatusCode: DefaultStatus(verb),
		Async:      m.HasModifier("async"),
		Returns:    resolver.FromSyntax(m.Returns, decl.File),
		Style:      StyleGroup,
		Group:      GroupName(decl),
		Handler:    decl.Name + "." + m.Name,
		Location:   m.Location,
	}
	if status, produced := producesResponse(m.Attributes); status != 0 {
		ep.StatusCode = status
		if produced != nil && isUntypedResult(m.Returns) {
			ep.Returns = resolver.FromSyntax(produced, decl.File)
		}
	}
	return ep
}

// verbAttribute returns the first per-verb attribute and its template.
func verbAttribute(attrs []*parser.Attribute) (verb, template string, ok bool) {
	for _, attr := range attrs {
		v, found := verbAttributes[attr.ShortName()]
		if !found {
			continue
		}
		if arg := attr.Positional(0); arg != nil && arg.Kind == parser.ExprString {
			template = arg.Value
		} else if arg := attr.Named("Template"); arg != nil && arg.Kind == parser.ExprString {
			template = arg.Value
		}
		return v, template, true
	}
	return "", "", false
}

func routeTemplate(attrs []*parser.Attribute) (string, bool) {
	for _, attr := range attrs {
		if attr.ShortName() != "Route" {
			continue
		}
		if arg := attr.Positional(0); arg != nil && arg.Kind == parser.ExprString {
			return arg.Value, true
		}
	}
	return "", false
}

// producesResponse reads the first success ProducesResponseType attribute:
// its status code and, when given, the produced type.
func producesResponse(attrs []*parser.Attribute) (int, *parser.TypeNode) {
	for _, attr := range attrs {
		base, generic, _ := strings.Cut(attr.Name, "<")
		if (&parser.Attribute{Name: base}).ShortName() != "ProducesResponseType" {
			continue
		}
		var status int
		var produced *parser.TypeNode
		if generic != "" {
			if node, err := parser.ParseTypeName(strings.TrimSuffix(generic, ">")); err == nil {
				produced = node
			}
		}
		for _, arg := range attr.Args {
			if arg.Value == nil {
				continue
			}
			switch {
			case arg.Value.Kind == parser.ExprTypeOf:
				produced = arg.Value.Type
			case status == 0 && (arg.Name == "" || strings.EqualFold(arg.Name, "StatusCode")):
				status = statusCode(arg.Value)
			}
		}
		if status >= 200 && status < 300 {
			return status, produced
		}
	}
	return 0, nil
}

// statusCode reads 201, StatusCodes.Status201Created or
// HttpStatusCode.Created style arguments.
func statusCode(e *parser.Expr) int {
	switch e.Kind {
	case parser.ExprNumber:
		n, _ := strconv.Atoi(e.Value)
		return n
	case parser.ExprMember:
		if digits := statusDigits.FindString(e.Value); digits != "" {
			n, _ := strconv.Atoi(digits)
			return n
		}
		return namedStatus[e.Value]
	}
	return 0
}

var namedStatus = map[string]int{
	"OK":        http.StatusOK,
	"Created":   http.StatusCreated,
	"Accepted":  http.StatusAccepted,
	"NoContent": http.StatusNoContent,
}

// isUntypedResult reports whether a declared return carries no body type,
// looking through Task and ValueTask.
func isUntypedResult(node *parser.TypeNode) bool {
	for node != nil && len(node.Args) == 1 && asyncWrappers[node.SimpleName()] {
		node = node.Args[0]
	}
	return node != nil && len(node.Args) == 0 && untypedResults[node.SimpleName()]
}
