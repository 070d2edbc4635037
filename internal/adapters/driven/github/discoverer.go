package github

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure Discoverer implements the interface.
var _ driven.SkillDiscoverer = (*Discoverer)(nil)

// MaxSkillFileSize skips SKILL.md files larger than this.
const MaxSkillFileSize = 1 << 20

// Discoverer finds SKILL.md files in a repository's default branch.
type Discoverer struct {
	client *Client
}

// NewDiscoverer creates a discoverer using client.
func NewDiscoverer(client *Client) *Discoverer {
	return &Discoverer{client: client}
}

// ParseRepo splits "owner/name", tolerating a github.com URL prefix and a
// .git suffix.
func ParseRepo(repo string) (owner, name string, err error) {
	s := strings.TrimSpace(repo)
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: repository must be owner/name, got %q", domain.ErrInvalidInput, repo)
	}
	return parts[0], parts[1], nil
}

// Discover returns the skills of repo sorted by skill ID. Files that cannot
// be read or parsed are logged and skipped.
func (d *Discoverer) Discover(ctx context.Context, repo string) ([]domain.Skill, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	repository, err := d.client.GetRepository(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	branch := repository.GetDefaultBranch()
	if branch == "" {
		branch = "HEAD"
	}

	tree, err := d.client.GetTree(ctx, owner, name, branch)
	if err != nil {
		return nil, err
	}
	if tree.GetTruncated() {
		logger.Warn("tree of %s/%s is truncated; some skills may be missing", owner, name)
	}

	source := owner + "/" + name
	seen := make(map[string]bool)
	var skills []domain.Skill

	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" || path.Base(entry.GetPath()) != SkillFile {
			continue
		}
		if entry.GetSize() > MaxSkillFileSize {
			logger.Warn("skipping %s: %d bytes", entry.GetPath(), entry.GetSize())
			continue
		}

		skillID := skillIDFor(entry.GetPath(), name)
		if seen[skillID] {
			logger.Warn("skipping %s: duplicate skill id %q", entry.GetPath(), skillID)
			continue
		}

		content, err := d.client.GetBlobRaw(ctx, owner, name, entry.GetSHA())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("skipping %s: %v", entry.GetPath(), err)
			continue
		}

		fm, err := parseFrontMatter(content)
		if err != nil {
			logger.Warn("skipping %s: %v", entry.GetPath(), err)
			continue
		}

		skill := domain.Skill{
			Source:       source,
			SkillID:      skillID,
			Name:         strings.TrimSpace(fm.Name),
			Description:  strings.TrimSpace(fm.Description),
			Technologies: fm.tags(),
		}
		if skill.Name == "" {
			skill.Name = skillID
		}
		seen[skillID] = true
		skills = append(skills, skill)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].SkillID < skills[j].SkillID })
	logger.Debug("discovered %d skills in %s", len(skills), source)
	return skills, nil
}

// skillIDFor returns the directory containing a SKILL.md file. A file at the
// repository root takes the repository name.
func skillIDFor(filePath, repoName string) string {
	dir := path.Dir(filePath)
	if dir == "." || dir == "/" {
		return repoName
	}
	return path.Base(dir)
}
