package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "yatubectl", cmd.Use)
	assert.Contains(t, cmd.Long, "groups and users")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"migrate"},
		{"group", "create"},
		{"group", "list"},
		{"group", "delete"},
		{"user", "create"},
		{"user", "delete"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	require.NotNil(t, cmd.PersistentFlags().Lookup("db-driver"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("dsn"))
}

func TestGroupCreateFlags(t *testing.T) {
	cmd := NewRootCommand()
	createCmd, _, err := cmd.Find([]string{"group", "create"})
	require.NoError(t, err)

	titleFlag := createCmd.Flags().Lookup("title")
	require.NotNil(t, titleFlag)
	assert.Equal(t, "t", titleFlag.Shorthand)
	assert.NotNil(t, createCmd.Flags().Lookup("slug"))
	assert.NotNil(t, createCmd.Flags().Lookup("description"))
}

// run executes the tool against a sqlite file and returns stdout.
func run(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	prev := db.DB
	t.Cleanup(func() { db.DB = prev })

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--db-driver", "sqlite", "--dsn", dsn}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func openFile(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	conn, err := db.Open(config.DB{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func TestMigrate(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "yatube.db")

	out, err := run(t, dsn, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	conn := openFile(t, dsn)
	for _, m := range models.All() {
		assert.True(t, conn.Migrator().HasTable(m))
	}
}

func TestGroupLifecycle(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "yatube.db")

	out, err := run(t, dsn, "group", "create", "--title", "Cat Lovers", "--description", "meow")
	require.NoError(t, err)
	assert.Contains(t, out, "/group/cat-lovers/")

	_, err = run(t, dsn, "group", "create", "--title", "Again", "--slug", "cat-lovers")
	assert.Error(t, err)

	out, err = run(t, dsn, "group", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cat-lovers")
	assert.Contains(t, out, "Cat Lovers")

	conn := openFile(t, dsn)
	var group models.Group
	require.NoError(t, conn.Where("slug = ?", "cat-lovers").First(&group).Error)
	author := models.User{Username: "ann", Password: "x"}
	require.NoError(t, conn.Create(&author).Error)
	require.NoError(t, conn.Create(&models.Post{Text: "grouped", AuthorID: &author.ID, GroupID: &group.ID}).Error)
	require.NoError(t, conn.Create(&models.Post{Text: "loose", AuthorID: &author.ID}).Error)

	out, err = run(t, dsn, "group", "delete", "cat-lovers")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted group cat-lovers")

	var posts []models.Post
	require.NoError(t, conn.Find(&posts).Error)
	require.Len(t, posts, 1)
	assert.Equal(t, "loose", posts[0].Text)

	_, err = run(t, dsn, "group", "delete", "cat-lovers")
	assert.Error(t, err)
}

func TestUserLifecycle(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "yatube.db")

	_, err := run(t, dsn, "user", "create", "leo")
	assert.Error(t, err, "password is required")

	out, err := run(t, dsn, "user", "create", "leo", "--password", "correct-horse")
	require.NoError(t, err)
	assert.Contains(t, out, "created user leo")

	conn := openFile(t, dsn)
	var user models.User
	require.NoError(t, conn.Where("username = ?", "leo").First(&user).Error)
	post := models.Post{Text: "survives", AuthorID: &user.ID}
	require.NoError(t, conn.Create(&post).Error)

	_, err = run(t, dsn, "user", "delete", "leo")
	require.NoError(t, err)

	var stored models.Post
	require.NoError(t, conn.First(&stored, post.ID).Error)
	assert.Nil(t, stored.AuthorID)
	assert.Zero(t, conn.Where("username = ?", "leo").Find(&[]models.User{}).RowsAffected)
}
