// Package domain models the location-resolution and data-acquisition domain
// for Météo-France DPClim climatology extracts.
//
// # Data Sources
//
// Station catalogs come from the DPClim "liste-stations" endpoint, one JSON
// array per French department. Department codes are provider-scoped strings:
// mainland departments use one or two digits ("7", "19"), Corsica uses "2A"
// and "2B", and overseas territories use three-digit codes ("971", "974").
//
// Geocoding uses OpenStreetMap Nominatim. When Nominatim is queried for an
// administrative area it returns a raw bounding box as four strings in
// [south, north, west, east] order; [BoundingBox] stores the same box as
// west/south/east/north floats, which is the order the search viewbox
// parameter expects.
//
// # Station Conventions
//
// DPClim station records carry the provider's field names (posteOuvert,
// postePublic, typePoste). A station is eligible for nearest-station
// selection only when posteOuvert is true and both coordinates are present
// and numeric; anything else is silently skipped. Ineligible records are
// common in practice: closed historical posts keep their catalog entries.
//
// # Order Workflow
//
// A climatology extract is an asynchronous provider-side "order": the client
// submits a (station, period) request, receives an order identifier in the
// nested elaboreProduitAvecDemandeResponse.return field, and fetches the
// produced file in a separate call. Period bounds are calendar dates
// converted to midnight-UTC instants before submission. The produced file is
// a semicolon-delimited table with localized decimal commas; it is persisted
// verbatim, never re-encoded.
//
// # Distance
//
// Proximity uses the haversine great-circle distance with the Earth mean
// radius 6371.0088 km. The exact formula matters: selection tie-breaks are
// "first minimum in catalog order", so any change in the arithmetic can
// change which station wins.
package domain
