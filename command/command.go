package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sputier/docbrowse/store"
)

// Command executor errors.
var (
	ErrUnknownCommand = errors.New("command: unknown command")
	ErrBadArgument    = errors.New("command: malformed argument")
)

// Executor runs the collection command language against a single
// collection: a command name plus one optional JSON argument, with the
// result rendered as indented JSON. Store failures propagate as errors
// rather than being folded into the result text.
type Executor struct {
	coll store.Collection
}

func NewExecutor(coll store.Collection) *Executor {
	return &Executor{coll: coll}
}

// Execute dispatches name with the raw JSON argument and returns the
// pretty-printed result.
func (e *Executor) Execute(ctx context.Context, name string, arg string) (string, error) {
	switch name {
	case "findOne":
		filter, err := parseFilter(arg)
		if err != nil {
			return "", err
		}
		doc, err := e.coll.FindOne(ctx, filter)
		if err != nil {
			return "", err
		}
		return render(doc)

	case "insert", "insertOne":
		doc, err := parseDocument(arg)
		if err != nil {
			return "", err
		}
		stored, err := e.coll.InsertOne(ctx, doc)
		if err != nil {
			return "", err
		}
		return render(stored)

	case "insertMany":
		docs, err := parseDocumentList(arg)
		if err != nil {
			return "", err
		}
		stored, err := e.coll.InsertMany(ctx, docs)
		if err != nil {
			return "", err
		}
		return render(stored)

	case "deleteOne":
		filter, err := parseFilter(arg)
		if err != nil {
			return "", err
		}
		n, err := e.coll.DeleteOne(ctx, filter)
		if err != nil {
			return "", err
		}
		return render(store.Document{"deletedCount": n})

	case "remove", "deleteMany":
		filter, err := parseFilter(arg)
		if err != nil {
			return "", err
		}
		n, err := e.coll.DeleteMany(ctx, filter)
		if err != nil {
			return "", err
		}
		return render(store.Document{"deletedCount": n})

	case "count":
		filter, err := parseFilter(arg)
		if err != nil {
			return "", err
		}
		n, err := e.coll.Count(ctx, filter)
		if err != nil {
			return "", err
		}
		return render(store.Document{"count": n})

	case "drop":
		if err := e.coll.Drop(ctx); err != nil {
			return "", err
		}
		return render(store.Document{"dropped": e.coll.Name()})

	case "bulkWrite":
		ops, err := parseWriteOps(arg)
		if err != nil {
			return "", err
		}
		res, err := e.coll.BulkWrite(ctx, ops)
		if err != nil {
			return "", err
		}
		return render(res)

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

func render(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// parseFilter accepts an empty argument as match-all.
func parseFilter(arg string) (store.Document, error) {
	if arg == "" {
		return nil, nil
	}
	return parseDocument(arg)
}

func parseDocument(arg string) (store.Document, error) {
	var doc store.Document
	if err := json.Unmarshal([]byte(arg), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	return doc, nil
}

func parseDocumentList(arg string) ([]store.Document, error) {
	var docs []store.Document
	if err := json.Unmarshal([]byte(arg), &docs); err != nil {
		// A single object is accepted as a one-element batch.
		doc, derr := parseDocument(arg)
		if derr != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
		return []store.Document{doc}, nil
	}
	return docs, nil
}

// writeOpSpec is the wire form of a bulkWrite element.
type writeOpSpec struct {
	InsertOne *struct {
		Document store.Document `json:"document"`
	} `json:"insertOne"`
	ReplaceOne *struct {
		Filter      store.Document `json:"filter"`
		Replacement store.Document `json:"replacement"`
	} `json:"replaceOne"`
	DeleteMany *struct {
		Filter store.Document `json:"filter"`
	} `json:"deleteMany"`
}

func parseWriteOps(arg string) ([]store.WriteOp, error) {
	var specs []writeOpSpec
	if err := json.Unmarshal([]byte(arg), &specs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}

	ops := make([]store.WriteOp, 0, len(specs))
	for i, spec := range specs {
		switch {
		case spec.InsertOne != nil:
			ops = append(ops, store.WriteOp{
				Type:     store.OpInsert,
				Document: spec.InsertOne.Document,
			})
		case spec.ReplaceOne != nil:
			ops = append(ops, store.WriteOp{
				Type:     store.OpReplace,
				Filter:   spec.ReplaceOne.Filter,
				Document: spec.ReplaceOne.Replacement,
			})
		case spec.DeleteMany != nil:
			ops = append(ops, store.WriteOp{
				Type:   store.OpDelete,
				Filter: spec.DeleteMany.Filter,
			})
		default:
			return nil, fmt.Errorf("%w: element %d names no operation", ErrBadArgument, i)
		}
	}

	return ops, nil
}
