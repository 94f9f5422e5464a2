package loader_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classyard/timetable-engine/internal/loader"
)

const sampleCatalog = `{
  "days": ["Mon", "Tue"],
  "blocks": [{"number":1,"type":"class"},{"number":2,"type":"class"}],
  "courses": [{"id":1,"name":"C1","grade":"G1"}],
  "teachers": [{"id":10,"name":"T1","may_teach_filler":false}],
  "subjects": [{"id":100,"name":"Math","default_weekly_blocks":2,"type":"mandatory"}],
  "qualifications": [{"teacher_id":10,"subject_id":100}],
  "availability": [{"teacher_id":10,"day":"Mon","start_block":1,"end_block":2},{"teacher_id":10,"day":"Tue","start_block":1,"end_block":2}],
  "demand": [{"course_id":1,"subject_id":100,"required_blocks":2}]
}`

func TestReadJSON_Basic(t *testing.T) {
	inst, err := loader.ReadJSON(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, inst.Courses, 1)
	require.Len(t, inst.Subjects, 1)
	require.Equal(t, 2, inst.Demand[0].RequiredBlocks)
}

func TestReadJSON_UnrecognizedSubjectType(t *testing.T) {
	bad := strings.Replace(sampleCatalog, `"type":"mandatory"`, `"type":"bogus"`, 1)
	_, err := loader.ReadJSON(strings.NewReader(bad))
	require.Error(t, err)
}

func TestReadJSON_UnrecognizedBlockType(t *testing.T) {
	bad := strings.Replace(sampleCatalog, `"type":"class"`, `"type":"bogus"`, 1)
	_, err := loader.ReadJSON(strings.NewReader(bad))
	require.Error(t, err)
}

func TestReadJSON_RejectsUnknownFields(t *testing.T) {
	bad := strings.Replace(sampleCatalog, `"days"`, `"unknown_field": 1, "days"`, 1)
	_, err := loader.ReadJSON(strings.NewReader(bad))
	require.Error(t, err)
}

func TestWriteReport_EncodesIndentedJSON(t *testing.T) {
	var buf bytes.Buffer
	err := loader.WriteReport(&buf, map[string]int{"a": 1})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "\"a\": 1")
}
