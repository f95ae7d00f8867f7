// Package output renders grown ridges as a GeoJSON FeatureCollection and can
// upload the rendered collection to a pre-signed object storage URL.
package output
