package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/classyard/timetable-engine/internal/catalog"
)

// ReadCSV reads the availability and per-course demand tables from a
// single tagged CSV stream. Each row's first field selects which table it
// belongs to:
//
//	availability,<teacher_id>,<day>,<start_block>,<end_block>
//	demand,<course_id>,<subject_id>,<required_blocks>
//
// log receives one line per malformed row skipped rather than aborting
// the whole read. Pass a nop logger from internal/logging when none is
// wanted.
func ReadCSV(r io.Reader, log *zap.SugaredLogger) ([]catalog.AvailabilityRange, []catalog.CourseSubjectDemand, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var avail []catalog.AvailabilityRange
	var demand []catalog.CourseSubjectDemand

	lineNum := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("loader: csv line %d: %w", lineNum+1, err)
		}
		lineNum++

		if len(record) == 0 {
			continue
		}

		switch record[0] {
		case "availability":
			a, err := parseAvailabilityRow(record)
			if err != nil {
				log.Warnf("loader: csv line %d: %v", lineNum, err)
				continue
			}
			avail = append(avail, a)

		case "demand":
			d, err := parseDemandRow(record)
			if err != nil {
				log.Warnf("loader: csv line %d: %v", lineNum, err)
				continue
			}
			demand = append(demand, d)

		case "":
			continue

		default:
			log.Warnf("loader: csv line %d: unrecognized row tag %q", lineNum, record[0])
		}
	}

	return avail, demand, nil
}

func parseAvailabilityRow(record []string) (catalog.AvailabilityRange, error) {
	if len(record) != 5 {
		return catalog.AvailabilityRange{}, fmt.Errorf("expected %q, got %d fields", "availability,teacher_id,day,start_block,end_block", len(record))
	}
	teacherID, err := strconv.Atoi(record[1])
	if err != nil {
		return catalog.AvailabilityRange{}, fmt.Errorf("teacher_id %q: %w", record[1], err)
	}
	start, err := strconv.Atoi(record[3])
	if err != nil {
		return catalog.AvailabilityRange{}, fmt.Errorf("start_block %q: %w", record[3], err)
	}
	end, err := strconv.Atoi(record[4])
	if err != nil {
		return catalog.AvailabilityRange{}, fmt.Errorf("end_block %q: %w", record[4], err)
	}
	return catalog.AvailabilityRange{TeacherID: teacherID, Day: record[2], StartBlock: start, EndBlock: end}, nil
}

func parseDemandRow(record []string) (catalog.CourseSubjectDemand, error) {
	if len(record) != 4 {
		return catalog.CourseSubjectDemand{}, fmt.Errorf("expected %q, got %d fields", "demand,course_id,subject_id,required_blocks", len(record))
	}
	courseID, err := strconv.Atoi(record[1])
	if err != nil {
		return catalog.CourseSubjectDemand{}, fmt.Errorf("course_id %q: %w", record[1], err)
	}
	subjectID, err := strconv.Atoi(record[2])
	if err != nil {
		return catalog.CourseSubjectDemand{}, fmt.Errorf("subject_id %q: %w", record[2], err)
	}
	required, err := strconv.Atoi(record[3])
	if err != nil {
		return catalog.CourseSubjectDemand{}, fmt.Errorf("required_blocks %q: %w", record[3], err)
	}
	return catalog.CourseSubjectDemand{CourseID: courseID, SubjectID: subjectID, RequiredBlocks: required}, nil
}
