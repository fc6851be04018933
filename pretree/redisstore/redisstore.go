package redisstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/pretree"
	"github.com/pbanos/arboretum/pretree/json"
	"gopkg.in/redis.v5"
)

/*
Store keeps JSON-encoded trees on a redis DB, each under a key built
from a common prefix and the tree's id.
*/
type Store struct {
	rc     *redis.Client
	prefix string
}

/*
New takes a redis client and a key prefix and returns a Store backed by
the client's redis DB.
*/
func New(rc *redis.Client, prefix string) *Store {
	return &Store{rc, prefix}
}

/*
Create takes a context.Context, a grown pre-tree, the specs of its
predictor columns in predictor order and the name of its response
column, stores the tree encoded as JSON under a fresh random id and
returns the id, or an error if the tree cannot be encoded or stored.
*/
func (s *Store) Create(ctx context.Context, pt *pretree.PreTree, predictors []frame.ColumnSpec, response string) (string, error) {
	var buf bytes.Buffer
	err := json.WriteTree(&buf, pt, predictors, response)
	if err != nil {
		return "", fmt.Errorf("creating tree: encoding tree: %v", err)
	}
	for {
		id := newID(20)
		ok, err := s.rc.SetNX(s.keyFor(id), buf.Bytes(), 0).Result()
		if err != nil {
			return "", fmt.Errorf("creating tree in redis: %v", err)
		}
		if ok {
			return id, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
}

/*
Get takes a context.Context and a tree id and returns the tree stored
under the id decoded from its JSON form, or an error if no tree is
stored under the id or it cannot be decoded.
*/
func (s *Store) Get(ctx context.Context, id string) (*json.Tree, error) {
	data, err := s.rc.Get(s.keyFor(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", id, err)
	}
	t, err := json.ReadTree(bytes.NewReader([]byte(data)))
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding: %v", id, err)
	}
	return t, nil
}

/*
Store takes a context.Context, a tree id, a grown pre-tree, the specs
of its predictor columns in predictor order and the name of its
response column and stores the tree encoded as JSON under the id,
replacing any tree stored under it. An error is returned if the tree
cannot be encoded or stored.
*/
func (s *Store) Store(ctx context.Context, id string, pt *pretree.PreTree, predictors []frame.ColumnSpec, response string) error {
	var buf bytes.Buffer
	err := json.WriteTree(&buf, pt, predictors, response)
	if err != nil {
		return fmt.Errorf("storing tree %q: encoding tree: %v", id, err)
	}
	_, err = s.rc.Set(s.keyFor(id), buf.Bytes(), 0).Result()
	if err != nil {
		return fmt.Errorf("storing tree %q in redis: %v", id, err)
	}
	return nil
}

/*
Delete takes a context.Context and a tree id and removes the tree
stored under the id, returning an error if it cannot be removed.
*/
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.rc.Del(s.keyFor(id)).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", id, err)
	}
	return nil
}

func (s *Store) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}
