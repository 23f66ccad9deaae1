package workflow

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	require.NoError(t, logger.Init("error", "console", "stdout"))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Workflow{}, &Execution{}))
	return db
}

func sampleNodes(n int) []Node {
	nodes := make([]Node, 0, n)
	for i := 0; i < n; i++ {
		nodeType := NodeTypeAction
		if i == 0 {
			nodeType = NodeTypeTrigger
		}
		nodes = append(nodes, Node{
			ID:       fmt.Sprintf("n%d", i+1),
			Type:     nodeType,
			Label:    fmt.Sprintf("Step %d", i+1),
			Position: Position{X: float64(100 * (i + 1)), Y: 100},
		})
	}
	return nodes
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc := NewService(newTestDB(t, "wf_create"), 20)

	wf, err := svc.Create(context.Background(), &CreateRequest{
		Name:  "Lead Routing",
		Nodes: sampleNodes(3),
		Edges: []Edge{{ID: "e1", Source: "n1", Target: "n2"}},
	})
	require.NoError(t, err)
	require.Contains(t, wf.ID, "workflow_")

	got, err := svc.Get(context.Background(), wf.ID)
	require.NoError(t, err)
	require.Equal(t, "Lead Routing", got.Name)
	require.Len(t, got.Nodes, 3)
	require.Equal(t, NodeTypeTrigger, got.Nodes[0].Type)
	require.Len(t, got.Edges, 1)
}

func TestCreateNilEdgesStoredAsEmptySlice(t *testing.T) {
	svc := NewService(newTestDB(t, "wf_edges"), 20)

	wf, err := svc.Create(context.Background(), &CreateRequest{
		Name:  "No Edges",
		Nodes: sampleNodes(1),
	})
	require.NoError(t, err)
	require.NotNil(t, wf.Edges)
	require.Empty(t, wf.Edges)
}

func TestCreateRejectsTooManyNodes(t *testing.T) {
	svc := NewService(newTestDB(t, "wf_limit"), 2)

	_, err := svc.Create(context.Background(), &CreateRequest{
		Name:  "Too Big",
		Nodes: sampleNodes(3),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum of 2 nodes")
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(newTestDB(t, "wf_missing"), 20)

	_, err := svc.Get(context.Background(), "workflow_nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByUser(t *testing.T) {
	svc := NewService(newTestDB(t, "wf_list"), 20)

	for _, user := range []string{"alice", "alice", "bob"} {
		_, err := svc.Create(context.Background(), &CreateRequest{
			Name:   "flow",
			Nodes:  sampleNodes(1),
			UserID: user,
		})
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	mine, err := svc.List(context.Background(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
}

func TestUpdateReplacesGraph(t *testing.T) {
	svc := NewService(newTestDB(t, "wf_update"), 20)

	wf, err := svc.Create(context.Background(), &CreateRequest{
		Name:  "Before",
		Nodes: sampleNodes(2),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), wf.ID, &CreateRequest{
		Name:        "After",
		Description: "now with three steps",
		Nodes:       sampleNodes(3),
	})
	require.NoError(t, err)
	require.Equal(t, "After", updated.Name)
	require.Len(t, updated.Nodes, 3)
	require.False(t, updated.UpdatedAt.Before(wf.UpdatedAt))

	_, err = svc.Update(context.Background(), "workflow_nope", &CreateRequest{
		Name:  "ghost",
		Nodes: sampleNodes(1),
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesWorkflow(t *testing.T) {
	svc := NewService(newTestDB(t, "wf_delete"), 20)

	wf, err := svc.Create(context.Background(), &CreateRequest{
		Name:  "Doomed",
		Nodes: sampleNodes(1),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), wf.ID))

	_, err = svc.Get(context.Background(), wf.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTemplatesWellFormed(t *testing.T) {
	templates := Templates()
	require.Len(t, templates, 2)

	for _, tpl := range templates {
		require.NotEmpty(t, tpl.ID)
		require.NotEmpty(t, tpl.Nodes)
		require.Equal(t, NodeTypeTrigger, tpl.Nodes[0].Type)
	}

	support := templates[1]
	require.Equal(t, "support-ticket", support.ID)
	require.Len(t, support.Nodes, 5)
	require.Equal(t, "Yes", support.Edges[2].Label)
	require.Equal(t, "No", support.Edges[3].Label)
}
