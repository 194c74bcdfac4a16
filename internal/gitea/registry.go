package gitea

import (
	"fmt"
	"strings"
)

// ParamLocation says where an argument lands in the outgoing request.
type ParamLocation string

const (
	InPath  ParamLocation = "path"
	InQuery ParamLocation = "query"
	InBody  ParamLocation = "body"
)

// ParamType is the declared argument type, validated before any request is built.
type ParamType string

const (
	TypeString      ParamType = "string"
	TypeInteger     ParamType = "integer"
	TypeBoolean     ParamType = "boolean"
	TypeStringList  ParamType = "strings"
	TypeIntegerList ParamType = "integers"
)

// Param describes one argument of an endpoint: its type, whether it is
// required, and how it routes into the HTTP request.
type Param struct {
	Name        string
	Type        ParamType
	In          ParamLocation
	Required    bool
	Field       string      // wire name when it differs from Name (e.g. include_desc -> includeDesc)
	Default     interface{} // body: sent when the argument is absent; query: values equal to this are omitted
	Description string
}

// wireName returns the name used on the wire (query key or body field).
func (p Param) wireName() string {
	if p.Field != "" {
		return p.Field
	}
	return p.Name
}

// Endpoint maps one tool name to one upstream request shape. Descriptors are
// immutable after registration; a given (name, valid arguments) pair always
// produces the same request.
type Endpoint struct {
	Name        string
	Description string
	Method      string
	Path        string // relative to /api/v1, with {placeholder} segments
	Params      []Param
}

// Registry holds the static operation catalogue, keyed by tool name.
type Registry struct {
	byName map[string]Endpoint
	order  []string
}

// NewRegistry builds the registry from the static catalogue. It panics on a
// malformed catalogue (duplicate name, placeholder without a matching path
// param); those are programming errors, caught at startup and by tests.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Endpoint, len(catalogue))}
	for _, ep := range catalogue {
		if _, dup := r.byName[ep.Name]; dup {
			panic(fmt.Sprintf("gitea: duplicate endpoint %q", ep.Name))
		}
		if err := checkPlaceholders(ep); err != nil {
			panic(fmt.Sprintf("gitea: endpoint %q: %v", ep.Name, err))
		}
		r.byName[ep.Name] = ep
		r.order = append(r.order, ep.Name)
	}
	return r
}

// Resolve looks up an endpoint by exact tool name.
func (r *Registry) Resolve(name string) (Endpoint, error) {
	ep, ok := r.byName[name]
	if !ok {
		return Endpoint{}, failf(KindUnknownOperation, "no such operation %q", name)
	}
	return ep, nil
}

// Endpoints returns all endpoints in registration order.
func (r *Registry) Endpoints() []Endpoint {
	eps := make([]Endpoint, 0, len(r.order))
	for _, name := range r.order {
		eps = append(eps, r.byName[name])
	}
	return eps
}

// checkPlaceholders verifies that every {segment} in the path template has
// exactly one required path param, and every path param has a placeholder.
func checkPlaceholders(ep Endpoint) error {
	placeholders := map[string]bool{}
	for _, seg := range strings.Split(ep.Path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			placeholders[seg[1:len(seg)-1]] = true
		}
	}
	for _, p := range ep.Params {
		if p.In != InPath {
			continue
		}
		if !p.Required {
			return fmt.Errorf("path param %q must be required", p.Name)
		}
		if !placeholders[p.Name] {
			return fmt.Errorf("path param %q has no placeholder in %q", p.Name, ep.Path)
		}
		delete(placeholders, p.Name)
	}
	for name := range placeholders {
		return fmt.Errorf("placeholder {%s} has no path param", name)
	}
	return nil
}

// repoCreateBody is the body parameter set shared by create_repository and
// create_org_repository.
func repoCreateBody() []Param {
	return []Param{
		{Name: "name", Type: TypeString, In: InBody, Required: true, Description: "Name of the repository"},
		{Name: "description", Type: TypeString, In: InBody, Description: "Short description of the repository"},
		{Name: "private", Type: TypeBoolean, In: InBody, Default: false, Description: "Whether the repository is private"},
		{Name: "auto_init", Type: TypeBoolean, In: InBody, Default: false, Description: "Initialize the repository with a README and license"},
		{Name: "gitignores", Type: TypeString, In: InBody, Description: "Gitignore template to use"},
		{Name: "license", Type: TypeString, In: InBody, Description: "License template to use"},
		{Name: "readme", Type: TypeString, In: InBody, Description: "Readme template to use"},
		{Name: "issue_labels", Type: TypeString, In: InBody, Description: "Issue label set to use"},
		{Name: "default_branch", Type: TypeString, In: InBody, Default: "main", Description: "Default branch name"},
	}
}

// ownerRepo returns the path params common to per-repository endpoints.
func ownerRepo() []Param {
	return []Param{
		{Name: "owner", Type: TypeString, In: InPath, Required: true, Description: "Owner of the repository"},
		{Name: "repo", Type: TypeString, In: InPath, Required: true, Description: "Name of the repository"},
	}
}

// ownerRepoIndex returns owner/repo plus the issue index path param.
func ownerRepoIndex() []Param {
	return append(ownerRepo(),
		Param{Name: "index", Type: TypeInteger, In: InPath, Required: true, Description: "Index of the issue"},
	)
}

// catalogue is the complete set of supported operations. Paths are relative
// to /api/v1 on the configured Gitea instance.
var catalogue = []Endpoint{
	{
		Name:        "list_repositories",
		Description: "List repositories for the authenticated user.",
		Method:      "GET",
		Path:        "/user/repos",
		Params: []Param{
			{Name: "page", Type: TypeInteger, In: InQuery, Description: "Page number of results (1-based)"},
			{Name: "limit", Type: TypeInteger, In: InQuery, Description: "Page size of results"},
		},
	},
	{
		Name:        "create_repository",
		Description: "Create a new repository for the authenticated user.",
		Method:      "POST",
		Path:        "/user/repos",
		Params:      repoCreateBody(),
	},
	{
		Name:        "create_org_repository",
		Description: "Create a new repository in an organization.",
		Method:      "POST",
		Path:        "/orgs/{org}/repos",
		Params: append([]Param{
			{Name: "org", Type: TypeString, In: InPath, Required: true, Description: "Name of the organization"},
		}, repoCreateBody()...),
	},
	{
		Name:        "get_repository",
		Description: "Get a specific repository.",
		Method:      "GET",
		Path:        "/repos/{owner}/{repo}",
		Params:      ownerRepo(),
	},
	{
		Name:        "delete_repository",
		Description: "Delete a repository. This cannot be undone.",
		Method:      "DELETE",
		Path:        "/repos/{owner}/{repo}",
		Params:      ownerRepo(),
	},
	{
		Name:        "list_org_repositories",
		Description: "List an organization's repositories.",
		Method:      "GET",
		Path:        "/orgs/{org}/repos",
		Params: []Param{
			{Name: "org", Type: TypeString, In: InPath, Required: true, Description: "Name of the organization"},
		},
	},
	{
		Name:        "fork_repository",
		Description: "Fork a repository, optionally into an organization.",
		Method:      "POST",
		Path:        "/repos/{owner}/{repo}/forks",
		Params: append(ownerRepo(),
			Param{Name: "organization", Type: TypeString, In: InBody, Description: "Organization to fork into (defaults to the authenticated user)"},
		),
	},
	{
		Name:        "search_repositories",
		Description: "Search for repositories across the instance.",
		Method:      "GET",
		Path:        "/repos/search",
		Params: []Param{
			{Name: "q", Type: TypeString, In: InQuery, Required: true, Description: "Keyword to search for"},
			{Name: "topic", Type: TypeBoolean, In: InQuery, Default: false, Description: "Match the keyword against topics"},
			{Name: "include_desc", Type: TypeBoolean, In: InQuery, Field: "includeDesc", Default: false, Description: "Match the keyword against descriptions"},
			{Name: "uid", Type: TypeInteger, In: InQuery, Description: "Restrict to repositories owned by the given user ID"},
			{Name: "priority_owner_id", Type: TypeInteger, In: InQuery, Description: "Prioritize repositories owned by the given user ID"},
			{Name: "starred_by", Type: TypeInteger, In: InQuery, Field: "starredBy", Description: "Restrict to repositories starred by the given user ID"},
			{Name: "private", Type: TypeBoolean, In: InQuery, Description: "Include private repositories"},
			{Name: "is_profile", Type: TypeBoolean, In: InQuery, Description: "Restrict to user-profile repositories"},
			{Name: "template", Type: TypeBoolean, In: InQuery, Description: "Restrict to template repositories"},
			{Name: "archived", Type: TypeBoolean, In: InQuery, Description: "Restrict to archived repositories"},
			{Name: "mode", Type: TypeString, In: InQuery, Description: "Search mode: source, fork, mirror, collaborative"},
			{Name: "exclusive", Type: TypeBoolean, In: InQuery, Description: "Only return exact matches"},
			{Name: "sort", Type: TypeString, In: InQuery, Description: "Sort by: alpha, created, updated, size, id"},
			{Name: "order", Type: TypeString, In: InQuery, Description: "Order: asc or desc"},
			{Name: "page", Type: TypeInteger, In: InQuery, Description: "Page number of results (1-based)"},
			{Name: "limit", Type: TypeInteger, In: InQuery, Description: "Page size of results"},
		},
	},
	{
		Name:        "update_repository",
		Description: "Update repository settings (description, website, privacy, issues, wiki).",
		Method:      "PATCH",
		Path:        "/repos/{owner}/{repo}",
		Params: append(ownerRepo(),
			Param{Name: "description", Type: TypeString, In: InBody, Description: "Short description of the repository"},
			Param{Name: "website", Type: TypeString, In: InBody, Description: "URL for the repository"},
			Param{Name: "private", Type: TypeBoolean, In: InBody, Description: "Whether the repository is private"},
			Param{Name: "has_issues", Type: TypeBoolean, In: InBody, Description: "Enable the issue tracker"},
			Param{Name: "has_wiki", Type: TypeBoolean, In: InBody, Description: "Enable the wiki"},
		),
	},
	{
		Name:        "create_issue",
		Description: "Create a new issue in a repository.",
		Method:      "POST",
		Path:        "/repos/{owner}/{repo}/issues",
		Params: append(ownerRepo(),
			Param{Name: "title", Type: TypeString, In: InBody, Required: true, Description: "Title of the issue"},
			Param{Name: "body", Type: TypeString, In: InBody, Required: true, Description: "Body content of the issue"},
			Param{Name: "milestone_id", Type: TypeInteger, In: InBody, Field: "milestone", Description: "ID of the milestone to assign"},
			Param{Name: "labels", Type: TypeIntegerList, In: InBody, Description: "Label IDs to assign"},
		),
	},
	{
		Name:        "search_issues",
		Description: "Search for issues in a repository.",
		Method:      "GET",
		Path:        "/repos/{owner}/{repo}/issues",
		Params: append(ownerRepo(),
			Param{Name: "q", Type: TypeString, In: InQuery, Required: true, Description: "Keyword to search for"},
			Param{Name: "state", Type: TypeString, In: InQuery, Default: "open", Description: "Filter by state: open, closed, all (default open)"},
		),
	},
	{
		Name:        "update_issue",
		Description: "Update an issue: retitle, edit the body, close or reopen it.",
		Method:      "PATCH",
		Path:        "/repos/{owner}/{repo}/issues/{index}",
		Params: append(ownerRepoIndex(),
			Param{Name: "title", Type: TypeString, In: InBody, Description: "New title"},
			Param{Name: "body", Type: TypeString, In: InBody, Description: "New body content"},
			Param{Name: "state", Type: TypeString, In: InBody, Description: "New state: open or closed"},
			Param{Name: "milestone_id", Type: TypeInteger, In: InBody, Field: "milestone", Description: "ID of the milestone to assign"},
			Param{Name: "labels", Type: TypeIntegerList, In: InBody, Description: "Label IDs to assign"},
		),
	},
	{
		Name:        "get_issue",
		Description: "Get a specific issue.",
		Method:      "GET",
		Path:        "/repos/{owner}/{repo}/issues/{index}",
		Params:      ownerRepoIndex(),
	},
	{
		Name:        "list_issue_comments",
		Description: "List all comments on an issue.",
		Method:      "GET",
		Path:        "/repos/{owner}/{repo}/issues/{index}/comments",
		Params:      ownerRepoIndex(),
	},
	{
		Name:        "create_issue_comment",
		Description: "Create a comment on an issue.",
		Method:      "POST",
		Path:        "/repos/{owner}/{repo}/issues/{index}/comments",
		Params: append(ownerRepoIndex(),
			Param{Name: "body", Type: TypeString, In: InBody, Required: true, Description: "Body of the comment"},
		),
	},
	{
		Name:        "add_issue_label",
		Description: "Add labels to an issue.",
		Method:      "POST",
		Path:        "/repos/{owner}/{repo}/issues/{index}/labels",
		Params: append(ownerRepoIndex(),
			Param{Name: "labels", Type: TypeIntegerList, In: InBody, Required: true, Description: "Label IDs to add"},
		),
	},
	{
		Name:        "remove_issue_label",
		Description: "Remove a label from an issue.",
		Method:      "DELETE",
		Path:        "/repos/{owner}/{repo}/issues/{index}/labels/{label_id}",
		Params: append(ownerRepoIndex(),
			Param{Name: "label_id", Type: TypeInteger, In: InPath, Required: true, Description: "ID of the label to remove"},
		),
	},
	{
		Name:        "list_labels",
		Description: "List labels for a repository.",
		Method:      "GET",
		Path:        "/repos/{owner}/{repo}/labels",
		Params: append(ownerRepo(),
			Param{Name: "page", Type: TypeInteger, In: InQuery, Default: 1, Description: "Page number of results (1-based)"},
			Param{Name: "limit", Type: TypeInteger, In: InQuery, Default: 20, Description: "Page size of results"},
		),
	},
	{
		Name:        "create_label",
		Description: "Create a label for a repository.",
		Method:      "POST",
		Path:        "/repos/{owner}/{repo}/labels",
		Params: append(ownerRepo(),
			Param{Name: "name", Type: TypeString, In: InBody, Required: true, Description: "Name of the label"},
			Param{Name: "color", Type: TypeString, In: InBody, Required: true, Description: "Color of the label (6-character hex code)"},
			Param{Name: "description", Type: TypeString, In: InBody, Description: "Description of the label"},
			Param{Name: "exclusive", Type: TypeBoolean, In: InBody, Default: false, Description: "Whether the label is scoped (exclusive)"},
		),
	},
}
