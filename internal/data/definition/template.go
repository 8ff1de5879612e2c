package definition

import (
	"bytes"
	"encoding/json"
)

// Template is a sample CRUD definition for hand editing.
func Template() []Endpoint {
	return []Endpoint{
		{Path: "/api/users", Method: "GET", StatusCode: 200, Response: raw(`[
			{"id": 1, "name": "John Doe", "email": "john.doe@example.com", "role": "admin"},
			{"id": 2, "name": "Jane Smith", "email": "jane.smith@example.com", "role": "user"},
			{"id": 3, "name": "Bob Johnson", "email": "bob.johnson@example.com", "role": "user"}
		]`)},
		{Path: "/api/users/{id}", Method: "GET", StatusCode: 200, Response: raw(`{"id": 1, "name": "John Doe", "email": "john.doe@example.com", "role": "admin"}`)},
		{Path: "/api/users", Method: "POST", StatusCode: 201, Response: raw(`{"id": 4, "name": "New User", "email": "new.user@example.com", "role": "user"}`)},
		{Path: "/api/users/{id}", Method: "PUT", StatusCode: 200, Response: raw(`{"id": 1, "name": "John Doe Updated", "email": "john.doe.updated@example.com", "role": "admin"}`)},
		{Path: "/api/users/{id}", Method: "DELETE", StatusCode: 204, Response: raw(`null`)},
		{Path: "/api/products", Method: "GET", StatusCode: 200, Response: raw(`[
			{"id": 1, "name": "Laptop", "price": 999.99, "category": "Electronics"},
			{"id": 2, "name": "Mouse", "price": 29.99, "category": "Electronics"},
			{"id": 3, "name": "Keyboard", "price": 79.99, "category": "Electronics"}
		]`)},
		{Path: "/api/products/{id}", Method: "GET", StatusCode: 200, Response: raw(`{"id": 1, "name": "Laptop", "price": 999.99, "category": "Electronics"}`)},
		{Path: "/api/health", Method: "GET", StatusCode: 200, Response: raw(`{"status": "healthy", "timestamp": "2024-01-01T00:00:00Z", "version": "1.0.0"}`)},
		{Path: "/api/error", Method: "GET", StatusCode: 500, Response: raw(`{"error": "Internal Server Error", "message": "Something went wrong"}`)},
	}
}

// raw compacts literal JSON so written templates indent uniformly.
func raw(s string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		panic("definition: bad template literal: " + err.Error())
	}
	return buf.Bytes()
}
