package repoutil

import "testing"

func TestSplitRepoSlug(t *testing.T) {
	tests := []struct {
		name          string
		slug          string
		expectedOwner string
		expectedRepo  string
		expectError   bool
	}{
		{name: "valid slug", slug: "github/gh-aw", expectedOwner: "github", expectedRepo: "gh-aw"},
		{name: "another valid slug", slug: "octocat/hello-world", expectedOwner: "octocat", expectedRepo: "hello-world"},
		{name: "hyphen in owner", slug: "github-next/repo", expectedOwner: "github-next", expectedRepo: "repo"},
		{name: "dots in names", slug: "org.name/repo.name", expectedOwner: "org.name", expectedRepo: "repo.name"},
		{name: "invalid slug - no separator", slug: "githubnext", expectError: true},
		{name: "invalid slug - multiple separators", slug: "github/gh-aw/extra", expectError: true},
		{name: "invalid slug - empty", slug: "", expectError: true},
		{name: "invalid slug - only separator", slug: "/", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := SplitRepoSlug(tt.slug)
			if tt.expectError {
				if err == nil {
					t.Errorf("SplitRepoSlug(%q) expected error, got nil", tt.slug)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitRepoSlug(%q) unexpected error: %v", tt.slug, err)
			}
			if owner != tt.expectedOwner || repo != tt.expectedRepo {
				t.Errorf("SplitRepoSlug(%q) = (%q, %q); want (%q, %q)", tt.slug, owner, repo, tt.expectedOwner, tt.expectedRepo)
			}
		})
	}
}

func TestSplitSlugRef(t *testing.T) {
	tests := []struct {
		name          string
		slug          string
		expectedOwner string
		expectedRepo  string
		expectedRef   string
		expectError   bool
	}{
		{name: "no ref", slug: "github/gh-aw", expectedOwner: "github", expectedRepo: "gh-aw"},
		{name: "with branch ref", slug: "github/gh-aw@main", expectedOwner: "github", expectedRepo: "gh-aw", expectedRef: "main"},
		{name: "with sha ref", slug: "octocat/hello-world@abc123", expectedOwner: "octocat", expectedRepo: "hello-world", expectedRef: "abc123"},
		{name: "invalid base", slug: "noseparator@main", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, ref, err := SplitSlugRef(tt.slug)
			if tt.expectError {
				if err == nil {
					t.Errorf("SplitSlugRef(%q) expected error, got nil", tt.slug)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitSlugRef(%q) unexpected error: %v", tt.slug, err)
			}
			if owner != tt.expectedOwner || repo != tt.expectedRepo || ref != tt.expectedRef {
				t.Errorf("SplitSlugRef(%q) = (%q, %q, %q); want (%q, %q, %q)",
					tt.slug, owner, repo, ref, tt.expectedOwner, tt.expectedRepo, tt.expectedRef)
			}
		})
	}
}

func TestParseGitHubURL(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		expectedOwner string
		expectedRepo  string
		expectError   bool
	}{
		{name: "SSH format with .git", url: "git@github.com:github/gh-aw.git", expectedOwner: "github", expectedRepo: "gh-aw"},
		{name: "SSH format without .git", url: "git@github.com:octocat/hello-world", expectedOwner: "octocat", expectedRepo: "hello-world"},
		{name: "HTTPS format with .git", url: "https://github.com/github/gh-aw.git", expectedOwner: "github", expectedRepo: "gh-aw"},
		{name: "HTTPS format without .git", url: "https://github.com/octocat/hello-world", expectedOwner: "octocat", expectedRepo: "hello-world"},
		{name: "HTTPS with www", url: "https://www.github.com/owner/repo.git", expectedOwner: "owner", expectedRepo: "repo"},
		{name: "non-GitHub URL", url: "https://gitlab.com/user/repo.git", expectError: true},
		{name: "invalid URL", url: "not-a-url", expectError: true},
		{name: "empty URL", url: "", expectError: true},
		{name: "URL with trailing slash", url: "https://github.com/owner/repo/", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseGitHubURL(tt.url)
			if tt.expectError {
				if err == nil {
					t.Errorf("ParseGitHubURL(%q) expected error, got nil", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGitHubURL(%q) unexpected error: %v", tt.url, err)
			}
			if owner != tt.expectedOwner || repo != tt.expectedRepo {
				t.Errorf("ParseGitHubURL(%q) = (%q, %q); want (%q, %q)", tt.url, owner, repo, tt.expectedOwner, tt.expectedRepo)
			}
		})
	}
}

func TestSanitizeForFilename(t *testing.T) {
	tests := []struct {
		name     string
		slug     string
		expected string
	}{
		{name: "normal slug", slug: "github/gh-aw", expected: "github-gh-aw"},
		{name: "empty slug", slug: "", expected: "clone-mode"},
		{name: "slug with multiple slashes", slug: "owner/repo/extra", expected: "owner-repo-extra"},
		{name: "slug with hyphen", slug: "owner/my-repo", expected: "owner-my-repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeForFilename(tt.slug); got != tt.expected {
				t.Errorf("SanitizeForFilename(%q) = %q; want %q", tt.slug, got, tt.expected)
			}
		})
	}
}
