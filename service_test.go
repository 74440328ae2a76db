/*
 * Copyright 2026 quarryio.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package quarry_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/quarryio/quarry"
	"github.com/quarryio/quarry/database"
	"github.com/quarryio/quarry/repository"
	"github.com/quarryio/quarry/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Body      string    `bun:"body" json:"body"`
	DeletedAt time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

func TestMain(m *testing.M) {
	database.RegisterModel((*article)(nil), 1)
	_, err := database.InitDB(&database.Config{
		Connection: database.ConnectionConfig{
			Type:           "sqlite",
			ConnectTimeout: 5 * time.Second,
		},
		Schema: database.SchemaConfig{CreateOnStartup: true},
	})
	if err != nil {
		panic(err)
	}
	code := m.Run()
	_ = database.CloseDB()
	os.Exit(code)
}

func TestServiceCRUDLifecycle(t *testing.T) {
	svc := quarry.NewService[article]()
	ctx := context.Background()

	created, err := svc.Create(ctx, repository.Attributes{
		"title": "hello",
		"body":  "first article",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", fetched.Title)

	updated, err := svc.Update(ctx, repository.Attributes{"body": "revised"}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Body)
	assert.Equal(t, "hello", updated.Title)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	restored, err := svc.Restore(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", restored.Title)

	require.NoError(t, svc.ForceDelete(ctx, created.ID))
	trashed, err := svc.WithTrashed().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, trashed)
}

func TestServiceScopesAndBuilders(t *testing.T) {
	svc := quarry.NewService[article]()
	ctx := context.Background()

	for _, title := range []string{"go", "sql", "orm"} {
		_, err := svc.Create(ctx, repository.Attributes{"title": title})
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		_, _ = svc.DeleteBuilder().Model((*article)(nil)).Where("1 = 1").ForceDelete().Exec(ctx)
	})

	matches, err := svc.ScopeQuery(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("title LIKE ?", "s%")
	}).All(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "sql", matches[0].Title)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	page, err := svc.Page(ctx, types.NewPageRequestWithOrders(1, 2, []string{"title ASC"}))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "go", page.Items[0].Title)

	assert.NotNil(t, svc.SelectBuilder())
	assert.NotNil(t, svc.Repository())
}

func TestServiceTransactionHelpers(t *testing.T) {
	svc := quarry.NewService[article]()
	ctx := context.Background()
	db := database.GetDB()
	require.NotNil(t, db)

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := svc.SaveWithTx(ctx, &tx, &article{Title: "tx"}); err != nil {
			return err
		}
		return nil
	})
	require.NoError(t, err)

	rows, err := svc.FindByField(ctx, "title", "tx")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	entity := rows[0]
	entity.Body = "tx body"
	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := svc.UpdateWithTx(ctx, &tx, entity); err != nil {
			return err
		}
		return svc.DeleteWithTx(ctx, &tx, entity.ID)
	})
	require.NoError(t, err)

	// DeleteWithTx soft deletes; the row is gone from default queries.
	rows, err = svc.FindByField(ctx, "title", "tx")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
