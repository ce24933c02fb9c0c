// Package jsonregister provides a content-addressed registration cache for
// JSON values backed by a relational store.
//
// Registering a value returns a stable integer id: semantically identical
// values (regardless of object key order) always map to the same id, and
// distinct values map to distinct ids. Ids are assigned by the database; a
// process-local LRU cache fronts the store to make repeat registrations of
// hot values free.
//
// Basic usage:
//
//	cfg := jsonregister.Config{
//		Host:     "localhost",
//		Port:     5432,
//		Database: "mydb",
//		User:     "user",
//		Password: "pass",
//	}
//	reg, err := jsonregister.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer reg.Close()
//
//	id, err := reg.RegisterObject(ctx, jsonval.Object{
//		"name": jsonval.String("Alice"),
//		"age":  jsonval.Int(30),
//	})
//
// The store is the single source of truth: the cache is best-effort and
// process local, and staleness is benign because the store's uniqueness
// constraint guarantees one winning id per canonical value even across
// processes.
package jsonregister
