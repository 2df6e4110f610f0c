package routes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* Loader manages voice route configuration from routes.yaml
 * Provides in-memory lookup for fast access on the webhook hot path
 */

// Config represents the structure of routes.yaml
type Config struct {
	Routes []RouteConfig `yaml:"routes"`
}

// RouteConfig represents a single route in the YAML file
type RouteConfig struct {
	Path    string `yaml:"path"`
	Action  string `yaml:"action"`
	Text    string `yaml:"text"`
	Voice   string `yaml:"voice"`
	PlayURL string `yaml:"play_url"`
	Loop    int    `yaml:"loop"`
}

// Loader holds the loaded routes
type Loader struct {
	routes map[string]*Route
}

// NewLoader creates a new route loader
func NewLoader() *Loader {
	return &Loader{
		routes: make(map[string]*Route),
	}
}

// Load reads and parses the routes.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading routes file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing routes YAML: %w", err)
	}

	for _, rc := range config.Routes {
		route := &Route{
			Path:    rc.Path,
			Action:  NewAction(rc.Action),
			Text:    rc.Text,
			Voice:   rc.Voice,
			PlayURL: rc.PlayURL,
			Loop:    rc.Loop,
		}

		if err := route.Validate(); err != nil {
			return fmt.Errorf("validating route: %w", err)
		}

		l.routes[route.Path] = route
	}

	return nil
}

// Get retrieves a route by its webhook path
func (l *Loader) Get(path string) (*Route, error) {
	route, exists := l.routes[path]
	if !exists {
		return nil, fmt.Errorf("route not found: %s", path)
	}
	return route, nil
}

// List returns all loaded routes
func (l *Loader) List() []*Route {
	routes := make([]*Route, 0, len(l.routes))
	for _, route := range l.routes {
		routes = append(routes, route)
	}
	return routes
}

// Exists checks if a route path exists
func (l *Loader) Exists(path string) bool {
	_, exists := l.routes[path]
	return exists
}
