package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/itohio/envirosense/pkg/plot"
	"github.com/itohio/envirosense/pkg/results"
	"github.com/itohio/envirosense/pkg/sample"
	"github.com/itohio/envirosense/pkg/session"
)

const mainMenuItems = 5

// Console runs the interactive menus of a session over a text stream.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	s   *session.Session
}

// New creates a console reading operator input from in and writing to out.
func New(in io.Reader, out io.Writer, s *session.Session) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
		s:   s,
	}
}

// Run shows the main menu until the operator exits. It returns nil on exit
// and ErrInputClosed when input ends first.
func (c *Console) Run() error {
	for {
		c.printMainMenu()

		item, err := c.readMenuItem(mainMenuItems)
		if err != nil {
			return err
		}

		switch item {
		case 1:
			err = c.sensorMenu()
		case 2:
			err = c.singleConversion()
		case 3:
			err = c.batchConversion()
		case 4:
			err = c.resultsMenu()
		default:
			c.println("Bye!")
			return nil
		}
		if err != nil {
			return err
		}

		if err := c.waitForBack(); err != nil {
			return err
		}
	}
}

func (c *Console) printMainMenu() {
	c.println("\n----------- EnviroSense Main menu -----------")
	c.println("")
	c.println("\t1. Sensor setup and overview")
	c.println("\t2. Single ADC conversion")
	c.println("\t3. Batch conversion + statistics + plot")
	c.println("\t4. Save/load, tests and help")
	c.println("\t5. Exit")
	c.println("---------------------------------------------")
}

func (c *Console) printStatus() {
	if p := c.s.Sensor(); p != nil {
		c.printf("Current sensor : %s (%s)\n", p.Name, p.Unit)
	} else {
		c.println("Current sensor : (none)")
	}
	c.printf("Stored samples : %d\n", c.s.Count())
	c.println("")
}

func (c *Console) sensorMenu() error {
	for {
		c.println("\n--- Sensor setup and overview ---")
		c.printStatus()
		c.println("1) Choose sensor")
		c.println("2) Show sensor details")
		c.println("3) Clear stored measurements")
		c.println("4) Back to main menu")

		choice, err := c.readInt("Select option: ", 1, 4)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			if err := c.chooseSensor(); err != nil {
				return err
			}
		case 2:
			c.showSensorDetails()
		case 3:
			c.s.Clear()
			c.println("Measurements cleared.")
		default:
			return nil
		}
	}
}

func (c *Console) chooseSensor() error {
	catalog := c.s.Catalog()

	c.println("\nAvailable sensors:")
	for i, p := range catalog.List() {
		c.printf("  %d) %s (%s)\n", i+1, p.Name, p.Unit)
	}

	index, err := c.readInt("Select sensor: ", 1, catalog.Len())
	if err != nil {
		return err
	}

	p, err := c.s.SelectSensor(index - 1)
	if err != nil {
		return err
	}
	c.printf("Now using sensor: %s (%s)\n", p.Name, p.Unit)
	return nil
}

func (c *Console) showSensorDetails() {
	p := c.s.Sensor()
	if p == nil {
		c.println("No sensor selected.")
		return
	}

	c.println("\nSensor details")
	c.printf("  Name      : %s\n", p.Name)
	c.printf("  Unit      : %s\n", p.Unit)
	c.printf("  Vref      : %.2f V\n", p.VRef)
	c.printf("  Resolution: %d\n", p.Resolution)
	c.printf("  Scale     : %.3f\n", p.Scale)
	c.printf("  Offset    : %.3f\n", p.Offset)
	c.printf("  Threshold : %.2f %s\n", p.Threshold, p.Unit)
}

func (c *Console) singleConversion() error {
	p := c.s.Sensor()
	if p == nil {
		c.println("No sensor selected. Use menu 1 first.")
		return nil
	}

	c.println("\n--- Single ADC conversion ---")
	c.printf("Sensor: %s (%s)\n", p.Name, p.Unit)

	code, err := c.readInt("Enter ADC value: ", 0, p.Resolution)
	if err != nil {
		return err
	}

	value, stored, err := c.s.ConvertOne(code)
	if err != nil {
		return err
	}
	c.printf("ADC %d -> %.2f %s\n", code, value, p.Unit)
	if !stored {
		c.println("Buffer full, value not stored.")
	}
	return nil
}

func (c *Console) batchConversion() error {
	if c.s.Sensor() == nil {
		c.println("No sensor selected. Use menu 1 first.")
		return nil
	}

	c.println("\n--- Batch conversion from file ---")
	filename, err := c.readLine("Enter filename containing ADC values: ")
	if err != nil {
		return err
	}

	res, err := c.s.BatchFromFile(filename)
	if err != nil {
		c.reportFileError(filename, err)
		return nil
	}
	if res.Truncated {
		c.println("Buffer full, remaining values ignored.")
	}
	c.printf("Loaded %d samples.\n", res.Loaded)

	stats, err := c.s.Stats()
	if err != nil {
		c.println("No measurement data available.")
		return nil
	}

	p := c.s.Sensor()
	c.printf("\nStatistics for %s (%s)\n", p.Name, p.Unit)
	c.printf("  Samples           : %d\n", stats.Count)
	c.printf("  Min               : %.2f %s\n", stats.Min, p.Unit)
	c.printf("  Max               : %.2f %s\n", stats.Max, p.Unit)
	c.printf("  Mean              : %.2f %s\n", stats.Mean, p.Unit)
	c.printf("  Above threshold   : %d (threshold %.2f %s)\n", stats.AboveThreshold, p.Threshold, p.Unit)

	c.showPlot()
	return nil
}

func (c *Console) showPlot() {
	lines, err := c.s.Plot()
	if err != nil {
		c.println("No measurement data available.")
		return
	}

	c.printf("\n%s\n", plot.Title(c.s.Sensor()))
	for _, line := range lines {
		c.println(line)
	}
}

func (c *Console) resultsMenu() error {
	for {
		c.println("\n--- Results, tests and help ---")
		c.printStatus()
		c.println("1) Save measurements to file")
		c.println("2) Load measurements from file")
		c.println("3) Run conversion tests")
		c.println("4) Show help")
		c.println("5) Back to main menu")

		choice, err := c.readInt("Select option: ", 1, 5)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.saveResults()
		case 2:
			err = c.loadResults()
		case 3:
			c.runSelfTest()
		case 4:
			c.showHelp()
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) saveResults() error {
	if c.s.Count() == 0 {
		c.println("No measurement data available.")
		return nil
	}

	filename, err := c.readLine("Enter filename to save results: ")
	if err != nil {
		return err
	}

	n, err := c.s.Save(filename)
	if err != nil {
		c.printf("Could not open '%s' for writing.\n", filename)
		return nil
	}
	c.printf("Saved %d values to '%s'.\n", n, filename)
	return nil
}

func (c *Console) loadResults() error {
	filename, err := c.readLine("Enter filename to load results: ")
	if err != nil {
		return err
	}

	res, err := c.s.Load(filename)
	switch {
	case errors.Is(err, results.ErrEmptyFile):
		c.println("File is empty.")
		return nil
	case errors.Is(err, results.ErrFormat):
		c.println("Unexpected format.")
		return nil
	case err != nil:
		c.reportFileError(filename, err)
		return nil
	}

	if !res.SensorFound {
		c.printf("Warning: sensor '%s' not recognised.\n", res.SensorName)
	}
	c.printf("Loaded %d values from '%s'.\n", res.Loaded, filename)
	return nil
}

func (c *Console) runSelfTest() {
	p, checks, passed := c.s.SelfTest()

	for i, check := range checks {
		verdict := "FAIL"
		if check.Passed {
			verdict = "PASS"
		}
		c.printf("Test %d: ADC=%d expected=%.3f actual=%.3f diff=%.5f %s\n",
			i+1, check.Code, check.Expected, check.Actual, check.Diff, verdict)
	}
	c.printf("Summary: %d/%d tests passed (%s).\n", passed, len(checks), p.Name)
}

func (c *Console) showHelp() {
	c.println("\nEnviroSense help")
	c.println("This program converts ADC readings from simple sensors into")
	c.println("engineering units (C, kPa, lux) and provides basic statistics")
	c.println("and an ASCII plot.")
	c.println("")
	c.println("Typical usage:")
	c.println("  1) Use menu item 1 to select a sensor and clear old data.")
	c.println("  2) Use item 2 for quick single conversions.")
	c.println("  3) Use item 3 to load a file of ADC values and view stats.")
	c.println("  4) Use item 4 to save or load results, run tests or view this help.")
	c.printf("\nSamples are limited to %d per session; results files hold one value per line.\n", sample.Capacity)
}

// reportFileError tells a file that could not be opened apart from one that
// failed while being read.
func (c *Console) reportFileError(filename string, err error) {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Op == "open" {
		c.printf("Could not open '%s'.\n", filename)
		return
	}
	c.printf("Could not read '%s'.\n", filename)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// Stdio returns a console bound to the process standard streams.
func Stdio(s *session.Session) *Console {
	return New(os.Stdin, os.Stdout, s)
}
