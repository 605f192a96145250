package ui

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// ---- Button Components ----

type buttonOption func(*buttonConfig)

type buttonConfig struct {
	class      string
	attributes []g.Node
}

func withClass(class string) buttonOption {
	return func(c *buttonConfig) {
		c.class = class
	}
}

// withAttributes adds htmx or other attributes to the button
func withAttributes(attrs ...g.Node) buttonOption {
	return func(c *buttonConfig) {
		c.attributes = append(c.attributes, attrs...)
	}
}

func buttonStyled(text, baseClass string, options ...buttonOption) g.Node {
	config := &buttonConfig{}
	for _, option := range options {
		option(config)
	}

	class := baseClass
	if config.class != "" {
		class += " " + config.class
	}

	attrs := []g.Node{Class(class), Type("button")}
	attrs = append(attrs, config.attributes...)
	attrs = append(attrs, g.Text(text))
	return Button(attrs...)
}

// button creates a primary button (blue background)
func button(text string, options ...buttonOption) g.Node {
	return buttonStyled(text, "rounded inline-block bg-blue-500 text-white hover:bg-blue-600", options...)
}

// buttonDanger creates a danger button (red background)
func buttonDanger(text string, options ...buttonOption) g.Node {
	return buttonStyled(text, "rounded inline-block bg-red-500 text-white hover:bg-red-600", options...)
}
