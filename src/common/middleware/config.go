package middleware

import (
	"net"
	"net/url"
	"strconv"
)

const (
	AMQP_PROTOCOL = "amqp"
	DEFAULT_VHOST = "/"
)

type RabbitConfig struct {
	User     string
	Password string
	Host     string
	Port     int
}

func NewRabbitConfig(user, password, host string, port int) RabbitConfig {
	return RabbitConfig{
		User:     user,
		Password: password,
		Host:     host,
		Port:     port,
	}
}

// Address returns host:port, without credentials, for logging.
func (c RabbitConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// URL returns the dial address with credentials escaped, so passwords may contain
// reserved characters such as '@' or '/'.
func (c RabbitConfig) URL() string {
	u := url.URL{
		Scheme: AMQP_PROTOCOL,
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   DEFAULT_VHOST,
	}
	return u.String()
}
