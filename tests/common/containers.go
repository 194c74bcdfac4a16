// Package common provides the shared test harness: a disposable Gitea
// container with an admin user and access token bootstrapped inside it.
package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

// giteaImage is the upstream image used for integration runs.
const giteaImage = "gitea/gitea:1.22"

const (
	adminUser     = "integration"
	adminPassword = "s3cret-integration-pass"
	adminEmail    = "integration@example.com"
)

var (
	giteaOnce     sync.Once
	giteaEnv      *GiteaContainer
	giteaStartErr error
)

// GiteaContainer wraps a running Gitea instance plus a ready-to-use token.
type GiteaContainer struct {
	container testcontainers.Container
	url       string
	token     string
}

// URL returns the mapped base URL of the Gitea API.
func (g *GiteaContainer) URL() string { return g.url }

// Token returns the bootstrapped admin access token.
func (g *GiteaContainer) Token() string { return g.token }

// Cleanup tears the container down. Uses a fresh context in case the main
// context expired.
func (g *GiteaContainer) Cleanup() {
	if g == nil || g.container == nil {
		return
	}
	cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	g.container.Terminate(cleanupCtx)
}

// StartGitea starts one Gitea container per test process and bootstraps an
// admin token inside it. Manual mode: when GITEA_TEST_URL and
// GITEA_TEST_TOKEN are set, no container is started and tests run against
// the existing instance.
func StartGitea(t *testing.T) *GiteaContainer {
	t.Helper()

	if url := os.Getenv("GITEA_TEST_URL"); url != "" {
		return &GiteaContainer{url: url, token: os.Getenv("GITEA_TEST_TOKEN")}
	}

	giteaOnce.Do(func() {
		giteaEnv, giteaStartErr = startGiteaContainer()
	})
	if giteaStartErr != nil {
		t.Skipf("Gitea container unavailable (docker required): %v", giteaStartErr)
	}
	return giteaEnv
}

// startGiteaContainer runs the image, waits for the API to come up, then
// creates the admin user and generates an access token via the gitea CLI.
func startGiteaContainer() (*GiteaContainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	container, err := testcontainers.Run(ctx, giteaImage,
		testcontainers.WithExposedPorts("3000/tcp"),
		testcontainers.WithEnv(map[string]string{
			"GITEA__security__INSTALL_LOCK":        "true",
			"GITEA__server__HTTP_PORT":             "3000",
			"GITEA__service__DISABLE_REGISTRATION": "false",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/healthz").WithPort("3000/tcp").WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start gitea: %w", err)
	}

	// The gitea CLI must run as the git user inside the container.
	createUser := fmt.Sprintf(
		"gitea admin user create --username %s --password %s --email %s --admin --must-change-password=false",
		adminUser, adminPassword, adminEmail)
	if out, err := execAsGit(ctx, container, createUser); err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("create admin user: %w: %s", err, out)
	}

	genToken := fmt.Sprintf(
		"gitea admin user generate-access-token --username %s --token-name integration --scopes all --raw",
		adminUser)
	out, err := execAsGit(ctx, container, genToken)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("generate token: %w: %s", err, out)
	}
	token := lastLine(out)
	if token == "" {
		container.Terminate(ctx)
		return nil, fmt.Errorf("generate token: empty output")
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("get host: %w", err)
	}
	port, err := container.MappedPort(ctx, "3000/tcp")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &GiteaContainer{
		container: container,
		url:       fmt.Sprintf("http://%s:%s", host, port.Port()),
		token:     token,
	}, nil
}

// execAsGit runs a shell command inside the container as the git user and
// returns its combined output.
func execAsGit(ctx context.Context, container testcontainers.Container, command string) (string, error) {
	code, reader, err := container.Exec(ctx,
		[]string{"su", "git", "-c", command},
		tcexec.Multiplexed(),
	)
	if err != nil {
		return "", err
	}
	out, _ := io.ReadAll(reader)
	if code != 0 {
		return string(out), fmt.Errorf("exit code %d", code)
	}
	return string(out), nil
}

// lastLine returns the last non-empty line of output; the CLI prints the
// raw token there.
func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
