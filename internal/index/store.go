// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/arkierr"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/types"
)

// reftimeSpan extracts the [begin, end] envelope Reftime covers for one
// metadata record, degenerating a Position to begin==end the same way
// internal/matcher's reftime leaf does.
func reftimeSpan(md matcher.ItemSet) (begin, end aktime.Time, ok bool) {
	item := md.Get(types.CodeReftime)
	if item == nil {
		return aktime.Time{}, aktime.Time{}, false
	}
	switch rt := item.(type) {
	case types.ReftimePosition:
		return rt.Time, rt.Time, true
	case types.ReftimePeriod:
		return rt.Begin, rt.End, true
	default:
		return aktime.Time{}, aktime.Time{}, false
	}
}

// Acquire indexes one metadata record, applying the replace-mode rules
// of spec.md §6 "Acquire semantics". md.Source must be a SourceBlob
// (file, offset and size come from it); usn is the record's
// Update-Sequence-Number, used only when mode is ReplaceHigherUSN.
func (s *Store) Acquire(md *metadata.Metadata, usn int64, mode ReplaceMode) (AcquireResult, error) {
	blob, ok := md.Source.(types.SourceBlob)
	if !ok {
		return AcquireGenericError, arkierr.NewConsistency("index.Acquire", "metadata source is not a SourceBlob")
	}
	begin, end, ok := reftimeSpan(md)
	if !ok {
		return AcquireGenericError, arkierr.NewConsistency("index.Acquire", "metadata has no Reftime")
	}

	aggID, err := s.aggregate.Obtain(md)
	if err != nil {
		return AcquireGenericError, fmtTableErr("acquire.aggregate", err)
	}

	existing, err := s.findByFileOffset(blob.Filename, int64(blob.Offset))
	if err != nil {
		return AcquireGenericError, fmtTableErr("acquire.lookup", err)
	}

	size := int64(blob.Size)
	if existing == nil {
		if err := s.insertRow(blob.Format, blob.Filename, int64(blob.Offset), size, aggID, begin, end, usn); err != nil {
			return AcquireGenericError, fmtTableErr("acquire.insert", err)
		}
		return AcquireOK, nil
	}

	switch mode {
	case ReplaceNever:
		return AcquireDuplicateError, nil
	case ReplaceAlways:
		if err := s.updateRow(existing.ID, size, aggID, begin, end, usn); err != nil {
			return AcquireGenericError, fmtTableErr("acquire.replace", err)
		}
		return AcquireOK, nil
	case ReplaceHigherUSN:
		if usn < existing.USN {
			return AcquireDuplicateError, nil
		}
		if err := s.updateRow(existing.ID, size, aggID, begin, end, usn); err != nil {
			return AcquireGenericError, fmtTableErr("acquire.replace", err)
		}
		return AcquireOK, nil
	default:
		return AcquireGenericError, arkierr.NewConsistency("index.Acquire", "unknown replace mode")
	}
}

func (s *Store) findByFileOffset(file string, offset int64) (*row, error) {
	var r row
	q, args, err := selectMd().Where(sq.Eq{"file": file, "offset": offset}).ToSql()
	if err != nil {
		return nil, err
	}
	if err := s.db.Get(&r, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) insertRow(format, file string, offset, size, aggID int64, begin, end aktime.Time, usn int64) error {
	_, err := s.db.Exec(
		`INSERT INTO md (format, file, offset, size, aggregate_id, reftime_begin, reftime_end, usn) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		format, file, offset, size, aggID, begin.ToSQL(), end.ToSQL(), usn,
	)
	if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.Code == sqlite3.ErrConstraint {
		return arkierr.NewConsistency("index.insertRow", "duplicate (file, offset)")
	}
	return err
}

func (s *Store) updateRow(id, size, aggID int64, begin, end aktime.Time, usn int64) error {
	_, err := s.db.Exec(
		`UPDATE md SET size=?, aggregate_id=?, reftime_begin=?, reftime_end=?, usn=? WHERE id=?`,
		size, aggID, begin.ToSQL(), end.ToSQL(), usn, id,
	)
	return err
}

// QueryResult is one matched row, with its aggregate attributes and
// reftime envelope restored into a fresh ItemSet.
type QueryResult struct {
	File   string
	Offset int64
	Size   int64
	Items  *metadata.ItemSet
}

// Query runs m against the index: the matcher's SQL pushdown narrows
// the candidate rows from both the core md table (reftime bounds) and
// the aggregate table (member-attribute IN(...) constraints), and the
// residual matcher re-checks every candidate's full restored ItemSet,
// guaranteeing exact semantics regardless of how coarse the pushdown is
// (spec.md §4.5/§4.6).
func (s *Store) Query(m *matcher.Matcher) ([]QueryResult, error) {
	where, residual := m.SQLPushdown("md.reftime_begin")
	query := sq.Select("md.id", "md.file", "md.offset", "md.size", "md.aggregate_id", "md.reftime_begin", "md.reftime_end").
		From("md").Where(where)

	if sub, args, ok, err := s.aggregate.MakeSubquery(m); err != nil {
		return nil, err
	} else if ok {
		query = query.Where("md.aggregate_id IN ("+sub+")", args...)
	}

	rows, err := query.RunWith(s.stmtCache).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QueryResult
	for rows.Next() {
		var id, aggID, offset, size int64
		var file, rBegin, rEnd string
		if err := rows.Scan(&id, &file, &offset, &size, &aggID, &rBegin, &rEnd); err != nil {
			return nil, err
		}
		items := metadata.NewItemSet()
		begin, err := aktime.ParseSQL(rBegin)
		if err != nil {
			return nil, err
		}
		end, err := aktime.ParseSQL(rEnd)
		if err != nil {
			return nil, err
		}
		if begin == end {
			items.Set(types.ReftimePosition{Time: begin})
		} else {
			items.Set(types.ReftimePeriod{Begin: begin, End: end})
		}
		if err := s.aggregate.Read(aggID, items); err != nil {
			return nil, err
		}
		if !residual(items) {
			continue
		}
		out = append(out, QueryResult{File: file, Offset: offset, Size: size, Items: items})
	}
	return out, rows.Err()
}
