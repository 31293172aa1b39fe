package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// label is one DNS label, underscores allowed for service records.
var label = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_-]{0,61}[A-Za-z0-9])?$`)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		_ = instance.RegisterValidation("dnsname", isDnsName)
		_ = instance.RegisterValidation("ttl", isTTL)
	})
	return instance
}

// Struct validates a struct by its `validate` tags.
func Struct(s any) error {
	if err := get().Struct(s); err != nil {
		return describe(err)
	}
	return nil
}

// Var validates a single value against a tag rule such as "ipv4" or "min=1,max=255".
func Var(value any, rule string) error {
	if rule == "" {
		return nil
	}
	if err := get().Var(value, rule); err != nil {
		return describe(err)
	}
	return nil
}

// describe turns validator errors into short readable text.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	prefix := ""
	if fe.Field() != "" {
		prefix = fe.Field() + ": "
	}
	switch fe.Tag() {
	case "required":
		return prefix + "value is required"
	case "ipv4":
		return prefix + "must be an IPv4 address"
	case "ipv6":
		return prefix + "must be an IPv6 address"
	case "fqdn":
		return prefix + "must be a fully qualified domain name"
	case "hostname_rfc1123":
		return prefix + "must be a valid host name"
	case "dnsname":
		return prefix + "must be a DNS name, @ or a wildcard"
	case "ttl":
		return prefix + "must be 1 (auto) or between 60 and 86400"
	case "min":
		return prefix + fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return prefix + fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return prefix + fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return prefix + fmt.Sprintf("failed %q check", fe.Tag())
}

// isDnsName accepts "@", a wildcard and relative or absolute names whose
// labels may contain underscores.
func isDnsName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "@" {
		return true
	}
	name = strings.TrimSuffix(name, ".")
	if name == "" || len(name) > 253 {
		return false
	}
	for i, part := range strings.Split(name, ".") {
		if part == "*" && i == 0 {
			continue
		}
		if !label.MatchString(part) {
			return false
		}
	}
	return true
}

// isTTL accepts 1 (automatic) or 60..86400 seconds.
func isTTL(fl validator.FieldLevel) bool {
	var ttl int64
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		ttl = fl.Field().Int()
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		if f != float64(int64(f)) {
			return false
		}
		ttl = int64(f)
	default:
		return false
	}
	return ttl == 1 || (ttl >= 60 && ttl <= 86400)
}
