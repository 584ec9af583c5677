package main

// openapiYAML is served at /api/openapi.yaml and rendered by /swagger.
var openapiYAML = []byte(`openapi: 3.0.3
info:
  title: CropSight API
  description: Punjab crop yield advisory service
  version: 1.0.0
servers:
  - url: /
paths:
  /health:
    get:
      summary: Health check
      responses:
        "200":
          description: Service health and loaded model type
  /api/v1/auth/register:
    post:
      summary: Register a new user
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [username, email, password]
              properties:
                username: { type: string }
                email: { type: string }
                password: { type: string }
      responses:
        "201": { description: Created }
        "409": { description: Email already registered }
  /api/v1/auth/login:
    post:
      summary: Log in and obtain a JWT
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [email, password]
              properties:
                email: { type: string }
                password: { type: string }
      responses:
        "200": { description: Token }
        "401": { description: Invalid credentials }
  /api/v1/predict:
    post:
      summary: Predict crop yield and generate advisory content
      security:
        - bearerAuth: []
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [crop, acres, latitude, longitude]
              properties:
                crop: { type: string, example: wheat }
                acres: { type: number, minimum: 0, exclusiveMinimum: true }
                latitude: { type: number, minimum: 29, maximum: 33 }
                longitude: { type: number, minimum: 73, maximum: 77 }
                year: { type: integer }
                season: { type: string, enum: [rabi, kharif] }
                district: { type: string }
      responses:
        "200": { description: Prediction with bounds, category and advisory content }
        "400": { description: Invalid input }
        "401": { description: Missing or invalid bearer token }
        "500": { description: Prediction failed }
  /api/v1/crops:
    get:
      summary: Supported crops
      security:
        - bearerAuth: []
      responses:
        "200": { description: Crop lists by season }
  /api/v1/districts:
    get:
      summary: Punjab districts
      security:
        - bearerAuth: []
      responses:
        "200": { description: District list }
  /api/v1/predictions:
    get:
      summary: Advisory history for the authenticated user
      security:
        - bearerAuth: []
      responses:
        "200": { description: Records, newest first }
        "401": { description: JWT required }
  /api/v1/predictions/{id}:
    get:
      summary: One advisory record by id
      security:
        - bearerAuth: []
      parameters:
        - in: path
          name: id
          required: true
          schema: { type: string }
      responses:
        "200": { description: Record }
        "404": { description: Not found }
components:
  securitySchemes:
    bearerAuth:
      type: http
      scheme: bearer
`)
