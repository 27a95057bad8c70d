package rules

import (
	"regexp"
	"strings"

	"snipex/internal/engine/analysis"
	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

var hookNameRE = regexp.MustCompile(`^use[A-Z][A-Za-z0-9]*$`)

var (
	expressReceivers = map[string]bool{"app": true, "router": true, "server": true, "api": true}
	expressMethods   = map[string]bool{
		"get": true, "post": true, "put": true, "delete": true, "patch": true,
		"all": true, "options": true, "head": true, "use": true,
	}
	vueAPIs = map[string]bool{
		"ref": true, "reactive": true, "computed": true, "watch": true, "watchEffect": true,
		"onMounted": true, "onUnmounted": true, "onBeforeMount": true, "onUpdated": true,
		"defineComponent": true, "defineProps": true, "defineEmits": true,
	}
	angularDecorators = map[string]bool{
		"Component": true, "Injectable": true, "NgModule": true, "Directive": true, "Pipe": true,
	}
	pythonRouteMethods = map[string]bool{
		"route": true, "get": true, "post": true, "put": true, "delete": true, "patch": true,
	}
)

// Framework labels well-known framework idioms: React hooks, Express routes,
// the Vue composition API, Angular decorators, and Flask or FastAPI route
// handlers. Labels are heuristic.
type Framework struct{}

func (Framework) Name() string { return "framework" }

func (Framework) SupportedKinds() []string {
	return []string{
		"call_expression",
		"class_declaration",
		"export_statement",
		"decorated_definition",
	}
}

func (Framework) IsValid(n syntax.Ref) bool {
	return detectFramework(n) != nil
}

func (Framework) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	info := detectFramework(n)
	if info == nil {
		return nil, nil
	}
	s := extract.Assemble(n, nesting, snippet.TypeFramework)
	if info.Framework == "react" {
		info.Hooks = hookCalls(n)
		s.Classification.Complexity = analysis.Enrich(s.Classification.Complexity, len(info.Hooks))
	}
	s.Metadata.Framework = info
	return &s, nil
}

func detectFramework(n syntax.Ref) *snippet.FrameworkInfo {
	switch n.Kind() {
	case "call_expression":
		if !isJSFamily(n) {
			return nil
		}
		return detectCallFramework(n)
	case "class_declaration", "export_statement":
		if !isJSFamily(n) {
			return nil
		}
		for _, d := range decorators(n) {
			if name := decoratorName(d.Text()); angularDecorators[name] {
				return &snippet.FrameworkInfo{Framework: "angular", Pattern: strings.ToLower(name)}
			}
		}
	case "decorated_definition":
		return detectPythonRoute(n)
	}
	return nil
}

func detectCallFramework(call syntax.Ref) *snippet.FrameworkInfo {
	receiver, method := calleeParts(call)
	switch {
	case receiver == "" && hookNameRE.MatchString(method):
		return &snippet.FrameworkInfo{Framework: "react", Pattern: "hook"}
	case expressReceivers[receiver] && expressMethods[method]:
		info := &snippet.FrameworkInfo{Framework: "express", Pattern: "route", RouteMethod: strings.ToUpper(method)}
		if method == "use" {
			info.Pattern = "middleware"
			info.RouteMethod = ""
		}
		if path, ok := firstStringArg(call); ok {
			info.RoutePath = path
		} else if method != "use" {
			return nil
		}
		return info
	case receiver == "" && vueAPIs[method]:
		return &snippet.FrameworkInfo{Framework: "vue", Pattern: "composition_api"}
	}
	return nil
}

func detectPythonRoute(n syntax.Ref) *snippet.FrameworkInfo {
	for _, d := range decorators(n) {
		call := d.ChildByKind("call")
		if !call.Valid() {
			continue
		}
		_, method := calleeParts(call)
		if !pythonRouteMethods[method] {
			continue
		}
		info := &snippet.FrameworkInfo{Framework: "fastapi", Pattern: "route", RouteMethod: strings.ToUpper(method)}
		if method == "route" {
			info.Framework = "flask"
			info.RouteMethod = ""
		}
		info.RoutePath, _ = firstStringArg(call)
		return info
	}
	return nil
}

// hookCalls lists the hooks called at or below n, in source order.
func hookCalls(n syntax.Ref) []string {
	hooks := []string{}
	visit := func(r syntax.Ref) {
		if r.Kind() != "call_expression" {
			return
		}
		if receiver, method := calleeParts(r); receiver == "" && hookNameRE.MatchString(method) {
			hooks = append(hooks, method)
		}
	}
	visit(n)
	descend(n, searchDepth, visit)
	return hooks
}

// descend calls visit for every node below n, in pre-order, up to maxDepth
// levels down.
func descend(n syntax.Ref, maxDepth int, visit func(syntax.Ref)) {
	if maxDepth <= 0 {
		return
	}
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		visit(c)
		descend(c, maxDepth-1, visit)
	}
}
