package gitlab

// Project is the subset of the GitLab project resource the migration reads
type Project struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`
	DefaultBranch     string `json:"default_branch"`
	WebURL            string `json:"web_url"`
}

// TreeEntry is one item of a repository tree listing
type TreeEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
	Mode string `json:"mode"`
}

// IsBlob reports whether the entry is a file
func (e TreeEntry) IsBlob() bool {
	return e.Type == "blob"
}
