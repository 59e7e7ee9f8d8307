package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverName(t *testing.T) {
	assert.Equal(t, DriverPostgres, (&DatabaseConfig{}).DriverName())
	assert.Equal(t, DriverMySQL, (&DatabaseConfig{Driver: " MySQL "}).DriverName())
}

func TestGetDSN(t *testing.T) {
	c := &DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "trackademia", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=trackademia sslmode=disable", c.GetDSN())
}

func TestLoadFromEnv_OverridesOnlySetValues(t *testing.T) {
	t.Setenv("TDB_HOST", "10.0.0.5")
	t.Setenv("TDB_PORT", "6543")
	t.Setenv("TDB_USER", "")

	c := &DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres"}
	c.LoadFromEnv("TDB")
	assert.Equal(t, "10.0.0.5", c.Host)
	assert.Equal(t, 6543, c.Port)
	assert.Equal(t, "postgres", c.User)

	t.Setenv("TMQ_QOS", "5")
	t.Setenv("TMQ_BROKER", "tcp://broker:1883")
	m := &MQTTConfig{QoS: 1}
	m.LoadFromEnv("TMQ")
	assert.Equal(t, byte(1), m.QoS) // 超出范围忽略
	assert.Equal(t, "tcp://broker:1883", m.Broker)

	t.Setenv("TRD_DB", "3")
	r := &RedisConfig{}
	r.LoadFromEnv("TRD")
	assert.Equal(t, 3, r.DB)
}
