// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"
	"sync"
)

// stmtCache keeps one prepared statement per query text for the life of the db.
type stmtCache struct {
	db    *sql.DB
	lock  sync.Mutex
	stmts map[string]*sql.Stmt
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{db: db, stmts: make(map[string]*sql.Stmt)}
}

// Prepare must not be called while a transaction holds the only connection.
func (c *stmtCache) Prepare(query string) (*sql.Stmt, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if stmt := c.stmts[query]; stmt != nil {
		return stmt, nil
	}
	stmt, err := c.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	c.stmts[query] = stmt
	return stmt, nil
}

// Clear closes every cached statement.
func (c *stmtCache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()

	for query, stmt := range c.stmts {
		_ = stmt.Close()
		delete(c.stmts, query)
	}
}
