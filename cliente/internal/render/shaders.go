package render

// Atributos: 0 posição, 1 uv, 2 camada, 3 tint, 4 oclusão (0..3).
const terrainVertexShader = `
#version 330 core

layout(location = 0) in vec3 vertexPosition;
layout(location = 1) in vec2 vertexTexCoord;
layout(location = 2) in uint vertexLayer;
layout(location = 3) in vec3 vertexTint;
layout(location = 4) in uint vertexAO;

uniform mat4 viewProj;
uniform vec3 camPos;

out vec2 fragTexCoord;
flat out uint fragLayer;
out vec3 fragTint;
out float fragShade;
out float fragDist;

void main()
{
    fragTexCoord = vertexTexCoord;
    fragLayer = vertexLayer;
    fragTint = vertexTint;

    // 3 = sem oclusão, 0 = canto totalmente fechado
    fragShade = 0.45 + 0.55 * (float(vertexAO) / 3.0);

    fragDist = length(vertexPosition.xz - camPos.xz);
    gl_Position = viewProj * vec4(vertexPosition, 1.0);
}
`

const terrainFragmentShader = `
#version 330 core

in vec2 fragTexCoord;
flat in uint fragLayer;
in vec3 fragTint;
in float fragShade;
in float fragDist;

uniform sampler2DArray blockTextures;
uniform vec3 fogColor;
uniform float fogEnd;

out vec4 finalColor;

void main()
{
    vec4 texel = texture(blockTextures, vec3(fragTexCoord, float(fragLayer)));
    if (texel.a < 0.1) {
        discard;
    }

    vec3 color = texel.rgb * fragTint * fragShade;

    // Névoa linear nos últimos 25% da distância de visão
    float fog = clamp((fragDist - fogEnd * 0.75) / (fogEnd * 0.25), 0.0, 1.0);
    finalColor = vec4(mix(color, fogColor, fog), texel.a);
}
`
