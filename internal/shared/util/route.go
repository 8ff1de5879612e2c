package util

import "strings"

// RouteParam is one {name} segment of a route template.
type RouteParam struct {
	Name       string
	Constraint string // first constraint, e.g. "int" for {id:int}
	CatchAll   bool   // {*rest} or {**rest}
	Optional   bool   // {id?}
}

// ParseRoute strips constraints, defaults and catch-all markers from an
// ASP.NET route template: "/a/{id:int}/{**rest}" becomes "/a/{id}/{rest}".
// Doubled braces are literal and kept as written.
func ParseRoute(template string) (string, []RouteParam) {
	var (
		out    strings.Builder
		params []RouteParam
	)
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '{' || strings.HasPrefix(template[i:], "{{") {
			if c == '{' || (c == '}' && strings.HasPrefix(template[i:], "}}")) {
				out.WriteString(template[i : i+2])
				i++
				continue
			}
			out.WriteByte(c)
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			out.WriteString(template[i:])
			break
		}
		param := parseParam(template[i+1 : i+end])
		params = append(params, param)
		out.WriteString("{" + param.Name + "}")
		i += end
	}
	return out.String(), params
}

func parseParam(body string) RouteParam {
	var p RouteParam
	if strings.HasPrefix(body, "*") {
		p.CatchAll = true
		body = strings.TrimLeft(body, "*")
	}
	if i := strings.IndexByte(body, '='); i >= 0 {
		body = body[:i]
		p.Optional = true
	}
	if strings.HasSuffix(body, "?") {
		body = strings.TrimSuffix(body, "?")
		p.Optional = true
	}
	name, constraints, found := strings.Cut(body, ":")
	if found {
		constraint, _, _ := strings.Cut(constraints, ":")
		if j := strings.IndexByte(constraint, '('); j >= 0 {
			constraint = constraint[:j]
		}
		p.Constraint = strings.TrimSuffix(constraint, "?")
		if strings.HasSuffix(constraints, "?") {
			p.Optional = true
		}
	}
	p.Name = strings.TrimSpace(name)
	return p
}
