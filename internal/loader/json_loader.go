// Package loader reads a ProblemInstance from two catalog data formats: a
// JSON document describing the whole instance at once, and a line-oriented
// CSV text format for the availability and demand tables.
package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/classyard/timetable-engine/internal/catalog"
)

// jsonInstance is the wire shape decoded from a catalog JSON document. It
// exists separately from catalog.ProblemInstance so the wire format's
// field names and optionality can evolve without touching the engine's
// internal type.
type jsonInstance struct {
	Days             []string                  `json:"days"`
	Blocks           []jsonBlock               `json:"blocks"`
	Courses          []jsonCourse              `json:"courses"`
	Teachers         []jsonTeacher             `json:"teachers"`
	Subjects         []jsonSubject             `json:"subjects"`
	Rooms            []catalog.RoomDef         `json:"rooms"`
	Quals            []catalog.Qualification   `json:"qualifications"`
	Avail            []catalog.AvailabilityRange `json:"availability"`
	Demand           []catalog.CourseSubjectDemand `json:"demand"`
	Curriculum       []catalog.GradeCurriculum `json:"curriculum"`
	FullWeekRequired bool                      `json:"full_week_required"`
}

type jsonBlock struct {
	Number int    `json:"number"`
	Type   string `json:"type"`
}

type jsonCourse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	FixedRoom *int   `json:"fixed_room"`
	FullWeek  bool   `json:"full_week"`
}

type jsonTeacher struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	MaxBlocksPerWeek *int   `json:"max_blocks_per_week"`
	MayTeachFiller   bool   `json:"may_teach_filler"`
}

type jsonSubject struct {
	ID                        int    `json:"id"`
	Name                      string `json:"name"`
	DefaultWeeklyBlocks       int    `json:"default_weekly_blocks"`
	RequiresSpecialRoom       bool   `json:"requires_special_room"`
	RequiresConsecutiveBlocks bool   `json:"requires_consecutive_blocks"`
	IsFiller                  bool   `json:"is_filler"`
	Priority                  int    `json:"priority"`
	MaxPerDay                 *int   `json:"max_per_day"`
	Type                      string `json:"type"`
	RoomType                  string `json:"room_type"`
}

// ReadJSON decodes a full ProblemInstance from r. Unrecognized block or
// subject type strings are a decode error, not silently mapped to a
// default, rejecting unknown references immediately rather than deferring
// to a later pass.
func ReadJSON(r io.Reader) (*catalog.ProblemInstance, error) {
	var raw jsonInstance
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("loader: decoding catalog JSON: %w", err)
	}

	inst := &catalog.ProblemInstance{
		Days:             raw.Days,
		Rooms:            raw.Rooms,
		Quals:            raw.Quals,
		Avail:            raw.Avail,
		Demand:           raw.Demand,
		Curriculum:       raw.Curriculum,
		FullWeekRequired: raw.FullWeekRequired,
	}

	for _, b := range raw.Blocks {
		t, err := parseBlockType(b.Type)
		if err != nil {
			return nil, fmt.Errorf("loader: block %d: %w", b.Number, err)
		}
		inst.Blocks = append(inst.Blocks, catalog.BlockDef{Number: b.Number, Type: t})
	}

	for _, c := range raw.Courses {
		inst.Courses = append(inst.Courses, catalog.CourseDef{
			ID: c.ID, Name: c.Name, Grade: c.Grade, FixedRoom: c.FixedRoom, FullWeek: c.FullWeek,
		})
	}

	for _, t := range raw.Teachers {
		inst.Teachers = append(inst.Teachers, catalog.TeacherDef{
			ID: t.ID, Name: t.Name, MaxBlocksPerWeek: t.MaxBlocksPerWeek, MayTeachFiller: t.MayTeachFiller,
		})
	}

	for _, m := range raw.Subjects {
		st, err := parseSubjectType(m.Type)
		if err != nil {
			return nil, fmt.Errorf("loader: subject %d (%s): %w", m.ID, m.Name, err)
		}
		inst.Subjects = append(inst.Subjects, catalog.SubjectDef{
			ID: m.ID, Name: m.Name, DefaultWeeklyBlocks: m.DefaultWeeklyBlocks,
			RequiresSpecialRoom: m.RequiresSpecialRoom, RequiresConsecutiveBlocks: m.RequiresConsecutiveBlocks,
			IsFiller: m.IsFiller, Priority: m.Priority, MaxPerDay: m.MaxPerDay, Type: st, RoomType: m.RoomType,
		})
	}

	return inst, nil
}

func parseBlockType(s string) (catalog.BlockType, error) {
	switch s {
	case "", "class":
		return catalog.BlockClass, nil
	case "other":
		return catalog.BlockOther, nil
	default:
		return 0, fmt.Errorf("unrecognized block type %q", s)
	}
}

func parseSubjectType(s string) (catalog.SubjectType, error) {
	switch s {
	case "", "mandatory":
		return catalog.SubjectMandatory, nil
	case "filler":
		return catalog.SubjectFiller, nil
	case "elective":
		return catalog.SubjectElective, nil
	case "project":
		return catalog.SubjectProject, nil
	default:
		return 0, fmt.Errorf("unrecognized subject type %q", s)
	}
}

// WriteReport marshals a report-shaped value to w as indented JSON. It is
// generic (accepts `any`) so the CLI encodes an engine SolutionReport, a
// feasibility result or a violation list with the same function, without
// this loader package importing the packages that own those types.
func WriteReport(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("loader: encoding report: %w", err)
	}
	return nil
}
