package results

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/itohio/envirosense/pkg/sample"
	"github.com/itohio/envirosense/pkg/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Unix(1700000000, 0)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "results.txt")
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

func TestWrite(t *testing.T) {
	catalog := sensor.NewCatalog()
	press, _ := catalog.Find("Press")
	b := sample.NewBuffer(press)
	b.Append(12.5)
	b.Append(-0.25)
	b.Append(1.23456)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, b, fixedTime))

	want := "EnviroSense Results\n" +
		"Timestamp: 1700000000\n" +
		"Sensor: Press\n" +
		"Unit: kPa\n" +
		"Count: 3\n" +
		"Values:\n" +
		"12.5000\n" +
		"-0.2500\n" +
		"1.2346\n"
	assert.Equal(t, want, buf.String())
}

func TestWrite_NoActiveSensor(t *testing.T) {
	b := sample.NewBuffer(nil)
	b.Append(1)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, b, fixedTime))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "Sensor: unknown", lines[2])
	assert.Equal(t, "Unit: ", lines[3])
}

func TestSave_Empty(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.txt")

	n, err := Save(name, sample.NewBuffer(nil), fixedTime)
	assert.ErrorIs(t, err, sample.ErrEmpty)
	assert.Equal(t, 0, n)

	_, statErr := os.Stat(name)
	assert.True(t, os.IsNotExist(statErr), "empty buffer must not create a file")
}

func TestSave_CannotOpen(t *testing.T) {
	b := sample.NewBuffer(nil)
	b.Append(1)

	_, err := Save(filepath.Join(t.TempDir(), "missing", "out.txt"), b, fixedTime)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	catalog := sensor.NewCatalog()

	for _, p := range catalog.List() {
		t.Run(p.Name, func(t *testing.T) {
			profile, _ := catalog.Find(p.Name)
			b := sample.NewBuffer(profile)
			for code := 0; code <= p.Resolution; code += 37 {
				b.Append(sensor.Convert(p, code))
			}
			name := filepath.Join(t.TempDir(), "round.txt")

			n, err := Save(name, b, fixedTime)
			require.NoError(t, err)
			assert.Equal(t, b.Count(), n)

			restored := sample.NewBuffer(catalog.Default())
			res, err := Load(name, catalog, restored)
			require.NoError(t, err)

			assert.True(t, res.SensorFound)
			assert.Equal(t, p.Name, res.SensorName)
			assert.Equal(t, p.Unit, res.Unit)
			assert.Equal(t, b.Count(), res.DeclaredCount)
			assert.Equal(t, b.Count(), res.Loaded)
			assert.Equal(t, 0, res.Skipped)
			assert.Same(t, profile, restored.Active())

			want := b.Values()
			got := restored.Values()
			require.Len(t, got, len(want))
			for i := range want {
				assert.InDelta(t, want[i], got[i], 0.00005, "value %d", i)
			}
		})
	}
}

func TestLoad_MalformedLinesSkipped(t *testing.T) {
	name := writeFile(t, "EnviroSense Results\n"+
		"Timestamp: 1\n"+
		"Sensor: Light\n"+
		"Unit: lux\n"+
		"Count: 4\n"+
		"Values:\n"+
		"1.0000\n"+
		"oops\n"+
		"2.5000\n"+
		"\n"+
		"3.0000\n")

	catalog := sensor.NewCatalog()
	b := sample.NewBuffer(catalog.Default())

	res, err := Load(name, catalog, b)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Loaded)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, []float64{1, 2.5, 3}, b.Values())
	assert.Equal(t, "Light", b.Active().Name)
}

func TestLoad_LongLineSkipped(t *testing.T) {
	name := writeFile(t, "EnviroSense Results\n"+
		"Timestamp: 1\n"+
		"Sensor: Temp\n"+
		"Unit: C\n"+
		"Count: 2\n"+
		"Values:\n"+
		"1.0\n"+
		strings.Repeat("x", 70000)+"\n"+
		"2.0\n")

	catalog := sensor.NewCatalog()
	b := sample.NewBuffer(catalog.Default())

	res, err := Load(name, catalog, b)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Loaded)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []float64{1, 2}, b.Values())
}

func TestLoad_UnknownSensor(t *testing.T) {
	name := writeFile(t, "EnviroSense Results\n"+
		"Timestamp: 1\n"+
		"Sensor: Humidity\n"+
		"Unit: %\n"+
		"Count: 2\n"+
		"Values:\n"+
		"10.0000\n"+
		"20.0000\n")

	catalog := sensor.NewCatalog()
	b := sample.NewBuffer(catalog.Default())

	res, err := Load(name, catalog, b)
	require.NoError(t, err)

	assert.False(t, res.SensorFound)
	assert.Equal(t, "Humidity", res.SensorName)
	assert.Nil(t, b.Active())
	assert.Equal(t, 2, res.Loaded)
	assert.Equal(t, []float64{10, 20}, b.Values())
}

// The Count header is informational: a mismatch neither truncates nor fails the load.
func TestLoad_CountHeaderIsNotEnforced(t *testing.T) {
	name := writeFile(t, "EnviroSense Results\n"+
		"Timestamp: 1\n"+
		"Sensor: Temp\n"+
		"Unit: C\n"+
		"Count: 1\n"+
		"Values:\n"+
		"1\n2\n3\n")

	catalog := sensor.NewCatalog()
	b := sample.NewBuffer(nil)

	res, err := Load(name, catalog, b)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DeclaredCount)
	assert.Equal(t, 3, res.Loaded)
}

// The Unit header does not take part in sensor selection.
func TestLoad_UnitHeaderIsIgnored(t *testing.T) {
	name := writeFile(t, "EnviroSense Results\n"+
		"Timestamp: 1\n"+
		"Sensor: Temp\n"+
		"Unit: lux\n"+
		"Count: 1\n"+
		"Values:\n"+
		"1\n")

	catalog := sensor.NewCatalog()
	b := sample.NewBuffer(nil)

	res, err := Load(name, catalog, b)
	require.NoError(t, err)
	assert.True(t, res.SensorFound)
	assert.Equal(t, "lux", res.Unit)
	assert.Equal(t, "C", b.Active().Unit)
}

func TestLoad_TruncatesAtCapacity(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("EnviroSense Results\nTimestamp: 1\nSensor: Temp\nUnit: C\nCount: 1200\nValues:\n")
	for range 1200 {
		sb.WriteString("1.5\n")
	}
	name := writeFile(t, sb.String())

	catalog := sensor.NewCatalog()
	b := sample.NewBuffer(nil)

	res, err := Load(name, catalog, b)
	require.NoError(t, err)
	assert.Equal(t, sample.Capacity, res.Loaded)
	assert.Equal(t, sample.Capacity, b.Count())
}

func TestLoad_FormatErrorsLeaveBufferUntouched(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty file", content: "", wantErr: ErrEmptyFile},
		{name: "title only", content: "EnviroSense Results\n", wantErr: ErrFormat},
		{name: "no values marker", content: "EnviroSense Results\nTimestamp: 1\nSensor: Temp\nUnit: C\nCount: 0\n", wantErr: ErrFormat},
		{name: "two lines", content: "EnviroSense Results\nTimestamp: 1\n", wantErr: ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := sensor.NewCatalog()
			light, _ := catalog.Find("Light")
			b := sample.NewBuffer(light)
			b.Append(42)

			_, err := Load(writeFile(t, tt.content), catalog, b)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Same(t, light, b.Active())
			assert.Equal(t, []float64{42}, b.Values())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	catalog := sensor.NewCatalog()
	b := sample.NewBuffer(catalog.Default())

	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), catalog, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead_Header(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   Parsed
	}{
		{
			name:   "standard",
			header: "Sensor: Temp\nUnit: C\nCount: 3\n",
			want:   Parsed{SensorName: "Temp", Unit: "C", DeclaredCount: 3},
		},
		{
			name:   "extra words",
			header: "Sensor: Press gauge\nUnit: kPa abs\nCount: 7 values\n",
			want:   Parsed{SensorName: "Press", Unit: "kPa", DeclaredCount: 7},
		},
		{
			name:   "long tokens truncated",
			header: "Sensor: ABCDEFGHIJKLMNOPQRST\nUnit: millibars\nCount: 1\n",
			want:   Parsed{SensorName: "ABCDEFGHIJKLMNO", Unit: "milliba", DeclaredCount: 1},
		},
		{
			name:   "missing prefixes",
			header: "Name: Temp\nUnits: C\nTotal: 3\n",
			want:   Parsed{},
		},
		{
			name:   "empty values",
			header: "Sensor:\nUnit:\nCount:\n",
			want:   Parsed{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "EnviroSense Results\nTimestamp: 1\n" + tt.header + "Values:\n"
			got, err := Read(strings.NewReader(content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
