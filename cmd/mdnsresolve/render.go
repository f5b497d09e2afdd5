package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/toddaustin07/mdns-resolver/querier"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	emptyStyle  = lipgloss.NewStyle().Faint(true)
)

// waitFor blocks until fn calls done, or budget elapses. A one-shot
// resolver call either invokes its callback asynchronously or stays
// silent when nothing answers, so the CLI needs its own bounded wait
// rather than blocking forever.
func waitFor(budget time.Duration, fn func(done func())) bool {
	signal := make(chan struct{}, 1)
	var once sync.Once
	report := func() { once.Do(func() { signal <- struct{}{} }) }

	fn(report)

	select {
	case <-signal:
		return true
	case <-time.After(budget):
		return false
	}
}

func renderServiceTypes(result querier.Result) string {
	entry, ok := result[querier.ServiceEnumerationName]
	if !ok || len(entry.ServiceTypes) == 0 {
		return emptyStyle.Render("no service types found")
	}

	types := append([]string(nil), entry.ServiceTypes...)
	sort.Strings(types)

	var b strings.Builder
	b.WriteString(headerStyle.Render("SERVICE TYPE"))
	b.WriteString("\n")
	for _, t := range types {
		b.WriteString(nameStyle.Render(t))
		b.WriteString("\n")
	}
	return b.String()
}

func renderServices(serviceType string, result querier.Result) string {
	entry, ok := result[serviceType]
	if !ok || len(entry.Instances) == 0 {
		return emptyStyle.Render(fmt.Sprintf("no instances of %s found", serviceType))
	}

	instances := append([]string(nil), entry.Instances...)
	sort.Strings(instances)

	var b strings.Builder
	b.WriteString(headerStyle.Render("INSTANCE"))
	b.WriteString("\n")
	for _, inst := range instances {
		b.WriteString(nameStyle.Render(inst))
		b.WriteString("\n")
	}
	return b.String()
}

func renderAddress(ip string, port *uint16) string {
	if ip == "" && port == nil {
		return emptyStyle.Render("not found")
	}
	if ip == "" {
		return fmt.Sprintf("%s port=%d", emptyStyle.Render("ip unknown"), *port)
	}
	if port == nil {
		return fmt.Sprintf("%s %s", nameStyle.Render(ip), emptyStyle.Render("port unknown"))
	}
	return fmt.Sprintf("%s:%d", nameStyle.Render(ip), *port)
}
