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

package types

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, 10, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())

	p = NewDefaultPageRequest(3, 25)
	assert.Equal(t, 3, p.GetPage())
	assert.Equal(t, 25, p.GetPageSize())
	assert.Equal(t, 50, p.GetOffset())
}

func TestPageRequestFilterAndOrders(t *testing.T) {
	filter := NewQueryFilter("age > ?", 18)
	p := NewPageRequestWithFilter(1, 10, filter)
	assert.Equal(t, filter, p.GetFilter())
	assert.Empty(t, p.GetOrders())

	p = NewPageRequestWithOrders(1, 10, []string{"id ASC", "name DESC"})
	assert.Nil(t, p.GetFilter())
	assert.Equal(t, []string{"id ASC", "name DESC"}, p.GetOrders())
}

func TestPaginationSetTotal(t *testing.T) {
	p := NewDefaultPagination[struct{}](1, 10)
	p.SetTotal(25)
	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 3, p.TotalPages)

	p.SetTotal(30)
	assert.Equal(t, 3, p.TotalPages)

	p.SetTotal(0)
	assert.Zero(t, p.TotalPages)
}

func TestPaginationBuildLinks(t *testing.T) {
	p := NewDefaultPagination[struct{}](2, 10)
	p.SetTotal(35)
	p.BuildLinks(url.Values{"sort": {"name"}, "page": {"2"}})

	assert.Equal(t, "?page=1&sort=name", p.Links.First)
	assert.Equal(t, "?page=4&sort=name", p.Links.Last)
	assert.Equal(t, "?page=1&sort=name", p.Links.Prev)
	assert.Equal(t, "?page=3&sort=name", p.Links.Next)
}

func TestPaginationBuildLinksPageBeyondLast(t *testing.T) {
	p := NewDefaultPagination[struct{}](9, 10)
	p.SetTotal(25)
	p.BuildLinks(nil)

	assert.Equal(t, "?page=3", p.Links.Prev)
	assert.Equal(t, "?page=3", p.Links.Last)
	assert.Empty(t, p.Links.Next)

	empty := NewDefaultPagination[struct{}](5, 10)
	empty.SetTotal(0)
	empty.BuildLinks(nil)
	assert.Equal(t, "?page=1", empty.Links.Prev)
}

func TestPaginationBuildLinksBoundaries(t *testing.T) {
	first := NewDefaultPagination[struct{}](1, 10)
	first.SetTotal(20)
	first.BuildLinks(nil)
	assert.Equal(t, "?page=1", first.Links.First)
	assert.Empty(t, first.Links.Prev)
	assert.Equal(t, "?page=2", first.Links.Next)

	last := NewDefaultPagination[struct{}](2, 10)
	last.SetTotal(20)
	last.BuildLinks(nil)
	assert.Equal(t, "?page=1", last.Links.Prev)
	assert.Empty(t, last.Links.Next)

	empty := NewDefaultPagination[struct{}](1, 10)
	empty.SetTotal(0)
	empty.BuildLinks(nil)
	assert.Equal(t, "?page=1", empty.Links.First)
	assert.Equal(t, "?page=1", empty.Links.Last)
	assert.Empty(t, empty.Links.Prev)
	assert.Empty(t, empty.Links.Next)
}
