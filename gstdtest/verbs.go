package gstdtest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// videotestsrc enum nicks, mapped to the descriptive strings the real daemon
// reports for element_get. Only the patterns the tests exercise are listed.
var videotestsrcPatterns = map[string]string{
	"smpte": "SMPTE 100% color bars",
	"snow":  "Random (television snow)",
	"black": "100% Black",
	"ball":  "Moving ball",
}

// parseDescription builds the element table from a gst-launch style
// description: segments separated by '!', each "factory [name=n] [prop=v]...".
func parseDescription(desc string) ([]*element, error) {
	var elements []*element
	for i, segment := range strings.Split(desc, "!") {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty element at position %d", i)
		}
		el := &element{
			factory: fields[0],
			name:    fields[0] + strconv.Itoa(i),
			props:   make(map[string]string),
		}
		for _, field := range fields[1:] {
			key, value, ok := strings.Cut(field, "=")
			if !ok {
				return nil, fmt.Errorf("malformed property %q", field)
			}
			if key == "name" {
				el.name = value
			} else {
				el.props[key] = value
			}
		}
		elements = append(elements, el)
	}
	return elements, nil
}

func (d *Daemon) pipelineCreate(name, description string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.pipelines[name]; exists {
		return failEnv(codeExists, "Pipeline %q already exists", name)
	}
	elements, err := parseDescription(description)
	if err != nil {
		return failEnv(codeBadArgument, "Unable to parse description: %v", err)
	}
	d.pipelines[name] = &pipeline{
		name:        name,
		description: description,
		state:       "null",
		elements:    elements,
		busTimeout:  -1,
		signalWaits: make(map[string]chan any),
		signalTimes: make(map[string]int64),
	}
	return okEnv(nil)
}

func (d *Daemon) pipelineDelete(name string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pipelines[name]
	if !ok {
		return failEnv(codeNotFound, "No pipeline named %q", name)
	}
	// Unblock anyone still waiting on a signal of this pipeline.
	for key, ch := range p.signalWaits {
		select {
		case ch <- nil:
		default:
		}
		delete(p.signalWaits, key)
	}
	delete(d.pipelines, name)
	return okEnv(nil)
}

func (d *Daemon) setState(name, state string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pipelines[name]
	if !ok {
		return failEnv(codeNotFound, "No pipeline named %q", name)
	}
	p.state = state
	return okEnv(nil)
}

func (d *Daemon) requirePipeline(name string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.pipelines[name]; !ok {
		return failEnv(codeNotFound, "No pipeline named %q", name)
	}
	return okEnv(nil)
}

func (d *Daemon) listPipelines() envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	return okEnv(map[string]any{"nodes": d.pipelineNodesLocked()})
}

func (d *Daemon) pipelineNodesLocked() []map[string]string {
	nodes := make([]map[string]string, 0, len(d.pipelines))
	for name := range d.pipelines {
		nodes = append(nodes, map[string]string{"name": name})
	}
	return nodes
}

func (d *Daemon) listElements(pipe string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pipelines[pipe]
	if !ok {
		return failEnv(codeNotFound, "No pipeline named %q", pipe)
	}
	nodes := make([]map[string]string, 0, len(p.elements))
	for _, el := range p.elements {
		nodes = append(nodes, map[string]string{"name": el.name})
	}
	return okEnv(map[string]any{"nodes": nodes})
}

func (d *Daemon) listProperties(pipe, elementName string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, env := d.findElementLocked(pipe, elementName)
	if el == nil {
		return env
	}
	nodes := make([]map[string]string, 0, len(el.props))
	for name := range el.props {
		nodes = append(nodes, map[string]string{"name": name})
	}
	return okEnv(map[string]any{"nodes": nodes})
}

func (d *Daemon) listSignals(pipe, elementName string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, env := d.findElementLocked(pipe, elementName)
	if el == nil {
		return env
	}
	// Every element understands at least these in the fake.
	nodes := []map[string]string{{"name": "eos"}, {"name": "new-sample"}}
	return okEnv(map[string]any{"nodes": nodes})
}

// findElementLocked resolves pipe/element or explains which one is missing.
func (d *Daemon) findElementLocked(pipe, elementName string) (*element, envelope) {
	p, ok := d.pipelines[pipe]
	if !ok {
		return nil, failEnv(codeNotFound, "No pipeline named %q", pipe)
	}
	for _, el := range p.elements {
		if el.name == elementName {
			return el, envelope{}
		}
	}
	return nil, failEnv(codeNotFound, "No element %q in pipeline %q", elementName, pipe)
}

func (d *Daemon) elementGet(pipe, elementName, property string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, env := d.findElementLocked(pipe, elementName)
	if el == nil {
		return env
	}
	raw, ok := el.props[property]
	if !ok {
		return failEnv(codeNotFound, "Element %q has no property %q", elementName, property)
	}
	value := any(raw)
	if el.factory == "videotestsrc" && property == "pattern" {
		if nick, ok := videotestsrcPatterns[raw]; ok {
			value = nick
		}
	} else if n, err := strconv.Atoi(raw); err == nil {
		value = n
	}
	return okEnv(map[string]any{"name": property, "value": value})
}

func (d *Daemon) elementSet(pipe, elementName, property, value string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, env := d.findElementLocked(pipe, elementName)
	if el == nil {
		return env
	}
	el.props[property] = value
	return okEnv(nil)
}

// ─── CRUD over resource URIs ────────────────────────────────────────

func (d *Daemon) create(uri, property, value string) envelope {
	if uri == "pipelines" {
		return d.pipelineCreate(property, value)
	}
	return failEnv(codeNotFound, "Cannot create resources under %q", uri)
}

func (d *Daemon) read(uri string) envelope {
	parts := strings.Split(strings.Trim(uri, "/"), "/")
	switch {
	case uri == "pipelines":
		return d.listPipelines()
	case len(parts) == 3 && parts[0] == "pipelines" && parts[2] == "elements":
		return d.listElements(parts[1])
	case len(parts) == 3 && parts[0] == "pipelines" && parts[2] == "state":
		d.mu.Lock()
		defer d.mu.Unlock()
		p, ok := d.pipelines[parts[1]]
		if !ok {
			return failEnv(codeNotFound, "No pipeline named %q", parts[1])
		}
		return okEnv(map[string]any{"name": "state", "value": p.state})
	}
	return failEnv(codeNotFound, "No resource at %q", uri)
}

func (d *Daemon) update(uri, value string) envelope {
	parts := strings.Split(strings.Trim(uri, "/"), "/")
	if len(parts) == 3 && parts[0] == "pipelines" && parts[2] == "state" {
		return d.setState(parts[1], value)
	}
	return failEnv(codeNotFound, "No writable resource at %q", uri)
}

func (d *Daemon) deleteRes(uri, name string) envelope {
	if uri == "pipelines" {
		return d.pipelineDelete(name)
	}
	return failEnv(codeNotFound, "Cannot delete resources under %q", uri)
}

// ─── Bus ────────────────────────────────────────────────────────────

func (d *Daemon) busFilter(pipe, filter string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pipelines[pipe]
	if !ok {
		return failEnv(codeNotFound, "No pipeline named %q", pipe)
	}
	p.busFilter = make(map[string]bool)
	for _, kind := range strings.Split(filter, "+") {
		p.busFilter[kind] = true
	}
	return okEnv(nil)
}

func (d *Daemon) busTimeout(pipe, value string) envelope {
	timeout, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return failEnv(codeBadArgument, "Invalid bus timeout %q", value)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pipelines[pipe]
	if !ok {
		return failEnv(codeNotFound, "No pipeline named %q", pipe)
	}
	p.busTimeout = timeout
	return okEnv(nil)
}

// busRead pops the first message passing the filter, waiting up to the
// configured window: -1 forever, 0 not at all, n for n nanoseconds. An
// exhausted window answers with a null payload, same as the real daemon.
func (d *Daemon) busRead(pipe string) envelope {
	d.mu.Lock()
	p, ok := d.pipelines[pipe]
	if !ok {
		d.mu.Unlock()
		return failEnv(codeNotFound, "No pipeline named %q", pipe)
	}
	window := p.busTimeout
	d.mu.Unlock()

	var deadline time.Time
	if window > 0 {
		deadline = time.Now().Add(time.Duration(window))
	}
	for {
		d.mu.Lock()
		msg, found := p.popBusLocked()
		d.mu.Unlock()
		if found {
			return okEnv(msg)
		}
		if window == 0 || (window > 0 && time.Now().After(deadline)) {
			return okEnv(nil)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func (p *pipeline) popBusLocked() (busMessage, bool) {
	for i, msg := range p.bus {
		kind, _ := msg["type"].(string)
		if p.busFilter != nil && !p.busFilter[kind] {
			continue
		}
		p.bus = append(p.bus[:i], p.bus[i+1:]...)
		return msg, true
	}
	return nil, false
}

func (d *Daemon) eventEOS(pipe string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pipelines[pipe]
	if !ok {
		return failEnv(codeNotFound, "No pipeline named %q", pipe)
	}
	p.bus = append(p.bus, busMessage{"type": "eos", "source": pipe})
	return okEnv(nil)
}

// ─── Signals ────────────────────────────────────────────────────────

func (d *Daemon) signalTimeout(pipe, elementName, signal, value string) envelope {
	timeout, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return failEnv(codeBadArgument, "Invalid signal timeout %q", value)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	el, env := d.findElementLocked(pipe, elementName)
	if el == nil {
		return env
	}
	d.pipelines[pipe].signalTimes[elementName+":"+signal] = timeout
	return okEnv(nil)
}

// signalConnect blocks the requesting connection until the signal fires, the
// configured window (-1 forever, 0 immediate, n microseconds) lapses, or a
// signal_disconnect arrives from any connection. Disconnects and lapsed
// windows answer with a null payload.
func (d *Daemon) signalConnect(pipe, elementName, signal string) envelope {
	key := elementName + ":" + signal

	d.mu.Lock()
	el, env := d.findElementLocked(pipe, elementName)
	if el == nil {
		d.mu.Unlock()
		return env
	}
	p := d.pipelines[pipe]
	window, configured := p.signalTimes[key]
	if !configured {
		window = -1
	}
	if window == 0 {
		d.mu.Unlock()
		return okEnv(nil)
	}
	ch := make(chan any, 1)
	p.signalWaits[key] = ch
	d.mu.Unlock()

	var timer <-chan time.Time
	if window > 0 {
		timer = time.After(time.Duration(window) * time.Microsecond)
	}

	defer func() {
		d.mu.Lock()
		if p.signalWaits[key] == ch {
			delete(p.signalWaits, key)
		}
		d.mu.Unlock()
	}()

	select {
	case payload := <-ch:
		return okEnv(payload)
	case <-timer:
		return okEnv(nil)
	}
}

func (d *Daemon) signalDisconnect(pipe, elementName, signal string) envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, env := d.findElementLocked(pipe, elementName)
	if el == nil {
		return env
	}
	p := d.pipelines[pipe]
	key := elementName + ":" + signal
	if ch, ok := p.signalWaits[key]; ok {
		select {
		case ch <- nil:
		default:
		}
		delete(p.signalWaits, key)
	}
	return okEnv(nil)
}
