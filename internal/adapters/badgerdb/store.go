package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/example/packtrack/internal/core/errs"
)

// maxTxnRetries bounds retries of read-modify-write transactions that lose
// an optimistic conflict to a concurrent writer.
const maxTxnRetries = 3

// collection stores one record type as JSON under "<prefix>/r/<id>", with an
// optional "<prefix>/c/<code>" -> id index for coded entities.
type collection[T any] struct {
	db      *badger.DB
	prefix  string
	entity  string
	id      func(*T) string
	code    func(*T) string
	created func(*T) time.Time
}

func (c *collection[T]) recordKey(id string) []byte {
	return []byte(c.prefix + "/r/" + id)
}

func (c *collection[T]) codeKey(code string) []byte {
	return []byte(c.prefix + "/c/" + code)
}

func (c *collection[T]) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxnRetries; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = c.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("%s write kept conflicting: %w", c.entity, err)
}

func (c *collection[T]) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.db.View(fn)
}

func (c *collection[T]) create(ctx context.Context, rec *T) error {
	id := c.id(rec)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.entity, err)
	}
	err = c.update(ctx, func(txn *badger.Txn) error {
		if err := c.absent(txn, c.recordKey(id), id); err != nil {
			return err
		}
		if c.code != nil {
			code := c.code(rec)
			if err := c.absent(txn, c.codeKey(code), code); err != nil {
				return err
			}
			if err := txn.Set(c.codeKey(code), []byte(id)); err != nil {
				return err
			}
		}
		return txn.Set(c.recordKey(id), data)
	})
	if err != nil && !isKind(err) {
		return fmt.Errorf("failed to create %s: %w", c.entity, err)
	}
	return err
}

func (c *collection[T]) absent(txn *badger.Txn, key []byte, label string) error {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return errs.Newf(errs.ErrConflict, "%s %s already exists", c.entity, label)
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil
	default:
		return err
	}
}

func (c *collection[T]) load(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get(c.recordKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errs.NotFound(c.entity, id)
	}
	if err != nil {
		return nil, err
	}
	rec := new(T)
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, rec)
	}); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s: %w", c.entity, id, err)
	}
	return rec, nil
}

func (c *collection[T]) getByID(ctx context.Context, id string) (*T, error) {
	var rec *T
	err := c.view(ctx, func(txn *badger.Txn) error {
		var err error
		rec, err = c.load(txn, id)
		return err
	})
	if err != nil && !isKind(err) {
		return nil, fmt.Errorf("failed to get %s: %w", c.entity, err)
	}
	return rec, err
}

func (c *collection[T]) getByCode(ctx context.Context, code string) (*T, error) {
	var rec *T
	err := c.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(c.codeKey(code))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errs.NotFound(c.entity, code)
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		rec, err = c.load(txn, string(id))
		if errs.KindOf(err) == errs.ErrNotFound {
			return errs.NotFound(c.entity, code)
		}
		return err
	})
	if err != nil && !isKind(err) {
		return nil, fmt.Errorf("failed to get %s: %w", c.entity, err)
	}
	return rec, err
}

func (c *collection[T]) codeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := c.view(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(c.codeKey(code))
		switch {
		case err == nil:
			exists = true
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check %s code: %w", c.entity, err)
	}
	return exists, nil
}

// scan returns every record accepted by keep, unordered.
func (c *collection[T]) scan(ctx context.Context, keep func(*T) bool) ([]*T, error) {
	var out []*T
	err := c.view(ctx, func(txn *badger.Txn) error {
		prefix := []byte(c.prefix + "/r/")
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 100, Prefix: prefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			rec := new(T)
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return fmt.Errorf("failed to decode %s: %w", c.entity, err)
			}
			if keep == nil || keep(rec) {
				out = append(out, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.entity, err)
	}
	return out, nil
}

// list returns the matching records newest first, ties broken by id.
func (c *collection[T]) list(ctx context.Context, keep func(*T) bool) ([]*T, error) {
	out, err := c.scan(ctx, keep)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b *T) int {
		if n := c.created(b).Compare(c.created(a)); n != 0 {
			return n
		}
		return strings.Compare(c.id(a), c.id(b))
	})
	return out, nil
}

// modify applies fn to the stored record inside one transaction.
func (c *collection[T]) modify(ctx context.Context, id string, fn func(*T)) (*T, error) {
	var rec *T
	err := c.update(ctx, func(txn *badger.Txn) error {
		var err error
		rec, err = c.load(txn, id)
		if err != nil {
			return err
		}
		fn(rec)
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(c.recordKey(id), data)
	})
	if err != nil && !isKind(err) {
		return nil, fmt.Errorf("failed to update %s: %w", c.entity, err)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *collection[T]) delete(ctx context.Context, id string) error {
	err := c.update(ctx, func(txn *badger.Txn) error {
		rec, err := c.load(txn, id)
		if err != nil {
			return err
		}
		if c.code != nil {
			if err := txn.Delete(c.codeKey(c.code(rec))); err != nil {
				return err
			}
		}
		return txn.Delete(c.recordKey(id))
	})
	if err != nil && !isKind(err) {
		return fmt.Errorf("failed to delete %s: %w", c.entity, err)
	}
	return err
}

// isKind reports whether err already carries a domain error kind.
func isKind(err error) bool {
	return errs.KindOf(err) != nil
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
