/*
Package config loads subst engine settings from YAML, JSON or TOML files.

# Basic Usage

	cfg, err := config.FromFile("subst.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	settings, err := cfg.Settings()
	if err != nil {
	    log.Fatal(err)
	}
	eng, err := subst.NewEngineFromSettings(settings)

Config itself is a map[string]any with typed accessors that fall back to a
default when a key is missing or has the wrong type:

	cfg := config.New(map[string]any{"cache_size": 64})
	size := cfg.Int("cache_size", 512) // 64

# Schema

SettingsSchema returns a JSON schema for the settings file, suitable for
editor validation:

	data, _ := config.SettingsSchema()
	os.WriteFile("subst.schema.json", data, 0o644)

# Reloading

Watch reloads the file on every write and hands the result to a callback:

	go config.Watch(ctx, "subst.yaml", func(cfg config.Config, err error) {
	    if err != nil {
	        log.Print(err)
	        return
	    }
	    // rebuild the engine
	})

# Thread Safety

Config is safe for concurrent reads. The underlying map is not modified after
creation.
*/
package config
