// Package swapi builds a Star Wars demo database from the public SWAPI
// dataset (https://swapi.info).
//
// The pipeline has three stages:
//
//  1. Fetch: download the raw category JSON files (Client.FetchAll).
//  2. Resolve: replace URL cross-references with {id, name} objects
//     (ResolveAll).
//  3. Generate: emit a SQL script that creates the schema, loads the
//     data, fills the junction tables, and defines reporting views
//     (GenerateScript).
//
// The generated script runs through db.ExecuteScript.
package swapi
