// Package config loads vnode project configuration.
//
// Configuration lives in vnode.yaml (or vnode.yml / vnode.json) next to the
// documents being rendered. Every field is optional; a project without a
// configuration file uses the defaults.
//
// # Configuration File Structure
//
//	name: site
//	render:
//	  page: true
//	  title: Home
//	  styleSheets: [/app.css]
//	dev:
//	  port: 3000
//	  pollInterval: 300ms
//	  metrics: true
//	publish:
//	  target: s3://my-bucket/index.html
//	  region: eu-west-1
//	log:
//	  level: debug
//	  format: json
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    errors.Print(os.Stderr, err)
//	    os.Exit(1)
//	}
//	logger := cfg.Logger(os.Stderr)
package config
