package config

import (
	"strings"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/resources"
)

// Validate checks the values that cannot be checked while decoding.
func (c *Config) Validate() error {
	for _, root := range c.ParallelRoots {
		if strings.Trim(root, "/") == "" {
			return errors.New(errors.ErrConfigValid, "parallel_roots entries must not be empty").
				WithDetail("key", "parallel_roots")
		}
	}
	for _, m := range c.SignatureMethods {
		if strings.TrimSpace(m) == "" {
			return errors.New(errors.ErrConfigValid, "signature_methods entries must not be empty").
				WithDetail("key", "signature_methods")
		}
	}
	if _, err := resources.NewXMLMatcher(c.XMLResources); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid xml_resources").
			WithDetail("key", "xml_resources")
	}
	return nil
}
