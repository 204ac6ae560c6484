//go:build integration

package bootstrap_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"cvbot-backend/internal/bootstrap"
	"cvbot-backend/internal/conversation"
	"cvbot-backend/internal/shared/config"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "cvbot_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/cvbot_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestConversationPersistsInPostgres(t *testing.T) {
	ctx := context.Background()
	app, err := bootstrap.Build(ctx, config.Config{
		Env:             "production",
		DatabaseURL:     dsn,
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		PublicBaseURL:   "http://bot.test",
		Catalog:         config.CatalogConfig{ColorCapable: []string{"template3"}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.NotNil(t, app.DB)

	const from = "whatsapp:+263 77 999 0000"
	send := func(text string) string {
		return app.Bot.ProcessMessage(ctx, from, text, "")
	}

	require.Contains(t, send("hi"), "Welcome to CV Maker Bot!")
	for _, text := range []string{
		"1", "Rudo Chikomo", "rudo@example.com", "+263 77 999 0000", "Bulawayo",
		"Accountant with five years in audit.", "Auditor at KPMG", "done", "BCom Accounting", "done",
		"Excel, IFRS",
	} {
		require.NotEqual(t, conversation.GenericReply, send(text), "input %q", text)
	}
	require.Contains(t, send("2"), "Choose your CV template:")
	require.Contains(t, send("1"), "Your CV has been created successfully!")

	user, created, err := app.UsersService.GetOrCreate(ctx, "+263779990000")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "Rudo Chikomo", user.Name)

	docs, total, err := app.DocumentsService.Recent(ctx, user.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Modern Professional", docs[0].TemplateName)
	require.Greater(t, docs[0].PageCount, 0)

	rec, err := app.Conversations.GetOrCreate(ctx, "+263779990000")
	require.NoError(t, err)
	require.Equal(t, conversation.StateMenu, rec.State)

	require.Contains(t, send("3"), "Rudo")
}
